package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/db"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/db/model"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/observability/tracing"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/utils"
)

// TransferPublic is the API representation of a transfer record.
type TransferPublic struct {
	SourceTxHash         string     `json:"source_tx_hash"`
	DestinationAddress   string     `json:"destination_address"`
	Amount               string     `json:"amount"`
	State                string     `json:"state"`
	SourceResultCode     string     `json:"source_result_code,omitempty"`
	SourceSubmittedAt    time.Time  `json:"source_submitted_at"`
	SourceSettledAt      *time.Time `json:"source_settled_at,omitempty"`
	DestinationTxHash    string     `json:"destination_tx_hash,omitempty"`
	DestinationArrivedAt *time.Time `json:"destination_arrived_at,omitempty"`
	BridgingDurationMs   *int64     `json:"bridging_duration_ms,omitempty"`
}

// RegisterTransfer registers an already-submitted source transaction for
// reconciliation. The registration returns as soon as the record is created;
// both poll phases run in the background.
func (s *Services) RegisterTransfer(
	ctx context.Context, sourceTxHash, destinationAddress, amount string,
) (*TransferPublic, *types.Error) {
	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil || !parsedAmount.IsPositive() {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "amount must be a positive decimal number",
		)
	}

	transfer, err := s.Reconciler.StartReconciliation(
		ctx, sourceTxHash, utils.NormalizeEvmAddress(destinationAddress), parsedAmount,
	)
	if err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusConflict, types.Conflict, "transfer already registered",
			)
		}
		if db.IsAmbiguousTransferError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusConflict, types.Conflict,
				"a transfer with the same destination address and amount is already in flight",
			)
		}
		log.Ctx(ctx).Error().Err(err).Msg("error while registering transfer")
		return nil, types.NewInternalServiceError(err)
	}

	return &TransferPublic{
		SourceTxHash:       transfer.SourceTxHash,
		DestinationAddress: transfer.DestinationAddress,
		Amount:             transfer.Amount,
		State:              transfer.State.ToString(),
		SourceSubmittedAt:  transfer.SourceSubmittedAt,
	}, nil
}

// TransferByTxHash returns the current record for a source transaction.
func (s *Services) TransferByTxHash(ctx context.Context, sourceTxHash string) (*TransferPublic, *types.Error) {
	transfer, err := s.DbClient.FindTransferByTxHash(ctx, sourceTxHash)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(http.StatusNotFound, types.NotFound, "transfer not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("error while fetching transfer")
		return nil, types.NewInternalServiceError(err)
	}

	return &TransferPublic{
		SourceTxHash:         transfer.SourceTxHash,
		DestinationAddress:   transfer.DestinationAddress,
		Amount:               transfer.Amount,
		State:                transfer.State.ToString(),
		SourceResultCode:     transfer.SourceResultCode,
		SourceSubmittedAt:    transfer.SourceSubmittedAt,
		SourceSettledAt:      transfer.SourceSettledAt,
		DestinationTxHash:    transfer.DestinationTxHash,
		DestinationArrivedAt: transfer.DestinationArrivedAt,
		BridgingDurationMs:   transfer.BridgingDurationMs,
	}, nil
}

// TransfersByDestinationAddress returns the paginated transfer history for
// a destination address, most recent first.
func (s *Services) TransfersByDestinationAddress(
	ctx context.Context, destinationAddress, paginationKey string,
) ([]TransferPublic, string, *types.Error) {
	resultMap, err := tracing.WrapWithSpan(ctx, "db_find_transfers_by_address", func() (*db.DbResultMap[model.TransferDocument], error) {
		return s.DbClient.FindTransfersByDestinationAddress(
			ctx, utils.NormalizeEvmAddress(destinationAddress), paginationKey,
		)
	})
	if err != nil {
		if db.IsInvalidPaginationTokenError(err) {
			return nil, "", types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid pagination token")
		}
		log.Ctx(ctx).Error().Err(err).Msg("error while fetching transfers by destination address")
		return nil, "", types.NewInternalServiceError(err)
	}

	transfers := make([]TransferPublic, 0, len(resultMap.Data))
	for _, transfer := range resultMap.Data {
		transfers = append(transfers, TransferPublic{
			SourceTxHash:         transfer.SourceTxHash,
			DestinationAddress:   transfer.DestinationAddress,
			Amount:               transfer.Amount,
			State:                transfer.State.ToString(),
			SourceResultCode:     transfer.SourceResultCode,
			SourceSubmittedAt:    transfer.SourceSubmittedAt,
			SourceSettledAt:      transfer.SourceSettledAt,
			DestinationTxHash:    transfer.DestinationTxHash,
			DestinationArrivedAt: transfer.DestinationArrivedAt,
			BridgingDurationMs:   transfer.BridgingDurationMs,
		})
	}
	return transfers, resultMap.PaginationToken, nil
}

// NextFaucetAmount computes the amount the next transfer toward the address
// should carry: the base amount plus a per-request fraction. The fraction
// keeps concurrent transfers toward the same address numerically distinct,
// which is what lets the arrival matcher tell them apart; callers that
// submit the source transaction themselves must preserve this policy.
func (s *Services) NextFaucetAmount(ctx context.Context, destinationAddress string) (string, *types.Error) {
	count, err := s.DbClient.CountTransfersByDestinationAddress(
		ctx, utils.NormalizeEvmAddress(destinationAddress),
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while counting transfers for address")
		return "", types.NewInternalServiceError(err)
	}

	fraction := s.cfg.Faucet.GetFractionStep().Mul(decimal.NewFromInt(count + 1))
	amount := s.cfg.Faucet.GetBaseAmount().Add(fraction)
	return amount.String(), nil
}
