package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/utils"
)

type RegisterTransferRequestPayload struct {
	SourceTxHash       string `json:"source_tx_hash"`
	DestinationAddress string `json:"destination_address"`
	Amount             string `json:"amount"`
}

func parseRegisterTransferRequestPayload(request *http.Request) (*RegisterTransferRequestPayload, *types.Error) {
	payload := &RegisterTransferRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	// Validate the payload fields
	if !utils.IsValidTxHash(payload.SourceTxHash) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid source transaction hash",
		)
	}
	if !utils.IsValidEvmAddress(payload.DestinationAddress) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid destination address",
		)
	}
	if payload.Amount == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "amount is required",
		)
	}

	return payload, nil
}

// RegisterTransfer registers an already-submitted source chain transaction so
// the engine reconciles its bridged arrival on the destination chain.
// Registration returns immediately while both poll phases run in the background.
func (h *Handler) RegisterTransfer(request *http.Request) (*Result, *types.Error) {
	payload, err := parseRegisterTransferRequestPayload(request)
	if err != nil {
		return nil, err
	}

	transfer, registerErr := h.services.RegisterTransfer(
		request.Context(), payload.SourceTxHash,
		payload.DestinationAddress, payload.Amount,
	)
	if registerErr != nil {
		return nil, registerErr
	}

	return NewResult(transfer), nil
}

// GetTransfer retrieves the current reconciliation record for a source
// transaction hash. A timeout state does not imply loss of funds: the transfer
// may still complete after the engine stopped watching.
func (h *Handler) GetTransfer(request *http.Request) (*Result, *types.Error) {
	sourceTxHash, err := parseTxHashQuery(request, "source_tx_hash")
	if err != nil {
		return nil, err
	}

	transfer, getErr := h.services.TransferByTxHash(request.Context(), sourceTxHash)
	if getErr != nil {
		return nil, getErr
	}

	return NewResult(transfer), nil
}
