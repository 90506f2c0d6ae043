package db

import (
	"context"
	"time"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/db/model"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

type DBClient interface {
	Ping(ctx context.Context) error
	CreateTransfer(
		ctx context.Context, sourceTxHash, destinationAddress, amount string, submittedAt time.Time,
	) error
	UpdateTransferSettlement(ctx context.Context, sourceTxHash string, settledAt time.Time) error
	UpdateTransferArrival(
		ctx context.Context, sourceTxHash, destinationTxHash string, arrivedAt time.Time, bridgingDurationMs int64,
	) error
	TransitionTransferState(
		ctx context.Context, sourceTxHash string, newState types.TransferState,
		eligiblePreviousStates []types.TransferState, sourceResultCode string,
	) error
	FindTransferByTxHash(ctx context.Context, sourceTxHash string) (*model.TransferDocument, error)
	FindTransfersByDestinationAddress(
		ctx context.Context, destinationAddress string, paginationToken string,
	) (*DbResultMap[model.TransferDocument], error)
	CountTransfersByDestinationAddress(ctx context.Context, destinationAddress string) (int64, error)
}
