package handlers

import (
	"net/http"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

type nextAmountPublic struct {
	DestinationAddress string `json:"destination_address"`
	Amount             string `json:"amount"`
}

// GetTransfers retrieves the paginated transfer history for a destination
// address, most recent first.
func (h *Handler) GetTransfers(request *http.Request) (*Result, *types.Error) {
	destinationAddress, err := parseEvmAddressQuery(request, "destination_address")
	if err != nil {
		return nil, err
	}
	paginationKey := request.URL.Query().Get("pagination_key")

	transfers, paginationToken, listErr := h.services.TransfersByDestinationAddress(
		request.Context(), destinationAddress, paginationKey,
	)
	if listErr != nil {
		return nil, listErr
	}

	return NewResultWithPagination(transfers, paginationToken), nil
}

// GetNextAmount returns the amount the next transfer toward the address should
// carry so the arrival matcher can tell concurrent transfers apart.
func (h *Handler) GetNextAmount(request *http.Request) (*Result, *types.Error) {
	destinationAddress, err := parseEvmAddressQuery(request, "destination_address")
	if err != nil {
		return nil, err
	}

	amount, amountErr := h.services.NextFaucetAmount(request.Context(), destinationAddress)
	if amountErr != nil {
		return nil, amountErr
	}

	return NewResult(nextAmountPublic{
		DestinationAddress: destinationAddress,
		Amount:             amount,
	}), nil
}
