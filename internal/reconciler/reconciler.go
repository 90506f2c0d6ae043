package reconciler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients/explorer"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients/ledger"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/db"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/db/model"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/events"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/observability/metrics"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/utils"
)

// Reconciler sequences the two poll phases of every registered transfer:
// the settlement poller runs to a terminal state and, only on Settled, the
// arrival matcher runs with the ledger-reported settlement time. Each record
// gets exactly one poller of each kind; field ownership in the store is
// partitioned accordingly. Poll-phase errors never cross this boundary,
// they only ever surface as one of the terminal states.
type Reconciler struct {
	cfg         *config.Config
	dbClient    db.DBClient
	ledger      ledger.Dialer
	index       explorer.Client
	broadcaster *events.Broadcaster

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(
	cfg *config.Config, dbClient db.DBClient, ledgerDialer ledger.Dialer,
	indexClient explorer.Client, broadcaster *events.Broadcaster,
) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler{
		cfg:         cfg,
		dbClient:    dbClient,
		ledger:      ledgerDialer,
		index:       indexClient,
		broadcaster: broadcaster,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// StartReconciliation creates the transfer record and launches the
// background reconciliation walk. It returns as soon as the record is
// persisted; both poll phases continue independently of the caller.
func (r *Reconciler) StartReconciliation(
	ctx context.Context, sourceTxHash, destinationAddress string, amount decimal.Decimal,
) (*model.TransferDocument, error) {
	submittedAt := time.Now().UTC()
	amountStr := amount.String()

	err := r.dbClient.CreateTransfer(ctx, sourceTxHash, destinationAddress, amountStr, submittedAt)
	if err != nil {
		return nil, err
	}

	r.broadcaster.Publish(ctx, events.TransferEvent{
		Type:         events.EventCreated,
		SourceTxHash: sourceTxHash,
		Status:       types.Pending,
	})

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reconcile(sourceTxHash, destinationAddress, amount)
	}()

	return &model.TransferDocument{
		SourceTxHash:       sourceTxHash,
		DestinationAddress: destinationAddress,
		Amount:             amountStr,
		State:              types.Pending,
		SourceSubmittedAt:  submittedAt,
	}, nil
}

// Stop cancels all outstanding poll tasks and waits for them to unwind.
// Canceled pollers exit without writing, so no record is left half-updated.
func (r *Reconciler) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Reconciler) reconcile(sourceTxHash, destinationAddress string, amount decimal.Decimal) {
	logger := log.With().Str("sourceTxHash", sourceTxHash).Logger()
	ctx := logger.WithContext(r.ctx)

	poller := &settlementPoller{
		dialer:      r.ledger,
		txHash:      sourceTxHash,
		interval:    r.cfg.Source.PollInterval,
		maxAttempts: r.cfg.Source.MaxPollAttempts,
	}
	settlement := poller.run(ctx)
	if settlement.canceled {
		logger.Info().Msg("settlement poll canceled by shutdown")
		return
	}
	metrics.RecordPollOutcome(metrics.SourcePhase, settlement.state.ToString())

	switch settlement.state {
	case types.Failed:
		logger.Info().Str("resultCode", settlement.resultCode).Msg("source tx failed with definitive result code")
		r.persistTransition(ctx, sourceTxHash, types.Failed, utils.QualifiedStatesToFailed(), settlement.resultCode)
		r.broadcaster.Publish(ctx, events.TransferEvent{
			Type:         events.EventFailed,
			SourceTxHash: sourceTxHash,
			Status:       types.Failed,
		})
		return
	case types.Timeout:
		logger.Warn().Msg("source settlement polling timed out")
		r.persistTransition(ctx, sourceTxHash, types.Timeout, utils.QualifiedStatesToTimeout(), "")
		r.broadcaster.Publish(ctx, events.TransferEvent{
			Type:         events.EventTimeout,
			SourceTxHash: sourceTxHash,
			Status:       types.Timeout,
		})
		return
	}

	logger.Info().Time("settledAt", settlement.settledAt).Msg("source tx settled")
	if err := r.dbClient.UpdateTransferSettlement(ctx, sourceTxHash, settlement.settledAt); err != nil {
		logger.Error().Err(err).Msg("failed to persist settlement")
	}
	r.broadcaster.Publish(ctx, events.TransferEvent{
		Type:         events.EventSettled,
		SourceTxHash: sourceTxHash,
		Status:       types.Settled,
	})

	r.persistTransition(ctx, sourceTxHash, types.Watching, utils.QualifiedStatesToWatching(), "")

	matcher := &arrivalMatcher{
		index:              r.index,
		destinationAddress: destinationAddress,
		expectedAmount:     amount,
		settledAt:          settlement.settledAt,
		interval:           r.cfg.Destination.PollInterval,
		maxAttempts:        r.cfg.Destination.MaxPollAttempts,
	}
	arrival := matcher.run(ctx)
	if arrival.canceled {
		logger.Info().Msg("arrival match canceled by shutdown")
		return
	}
	metrics.RecordPollOutcome(metrics.DestinationPhase, arrival.state.ToString())

	if arrival.state == types.Timeout {
		// Timeout is ambiguous: the funds may still arrive after we stop
		// watching, so consumers should prompt re-verification.
		logger.Warn().Msg("destination arrival polling timed out")
		r.persistTransition(ctx, sourceTxHash, types.Timeout, utils.QualifiedStatesToTimeout(), "")
		r.broadcaster.Publish(ctx, events.TransferEvent{
			Type:         events.EventTimeout,
			SourceTxHash: sourceTxHash,
			Status:       types.Timeout,
		})
		return
	}

	bridgingDurationMs := arrival.bridgingDuration.Milliseconds()
	logger.Info().
		Str("destinationTxHash", arrival.destinationTxHash).
		Int64("bridgingDurationMs", bridgingDurationMs).
		Msg("matched inbound destination transfer")

	err := r.dbClient.UpdateTransferArrival(
		ctx, sourceTxHash, arrival.destinationTxHash, arrival.arrivedAt, bridgingDurationMs,
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to persist arrival")
	}
	metrics.RecordBridgingDuration(arrival.bridgingDuration)

	r.broadcaster.Publish(ctx, events.TransferEvent{
		Type:               events.EventArrived,
		SourceTxHash:       sourceTxHash,
		Status:             types.Arrived,
		DestinationTxHash:  &arrival.destinationTxHash,
		BridgingDurationMs: &bridgingDurationMs,
	})
}

func (r *Reconciler) persistTransition(
	ctx context.Context, sourceTxHash string, newState types.TransferState,
	eligible []types.TransferState, resultCode string,
) {
	err := r.dbClient.TransitionTransferState(ctx, sourceTxHash, newState, eligible, resultCode)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("newState", newState.ToString()).
			Msg("failed to persist state transition")
	}
}
