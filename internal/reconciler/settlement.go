package reconciler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients/ledger"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/observability/metrics"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

// settlementOutcome is the terminal result of one settlement poll loop.
type settlementOutcome struct {
	state      types.TransferState // Settled, Failed or Timeout
	resultCode string
	settledAt  time.Time // ledger close time, set on Settled only
	canceled   bool
}

// settlementPoller watches the source ledger for the finality of one
// transaction. It owns a single ledger connection for the lifetime of the
// loop and releases it on every exit path. Transient query errors never
// advance the outcome; only a definitive ledger result or the attempt
// ceiling does.
type settlementPoller struct {
	dialer      ledger.Dialer
	txHash      string
	interval    time.Duration
	maxAttempts int
}

func (p *settlementPoller) run(ctx context.Context) settlementOutcome {
	var conn ledger.Conn
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return settlementOutcome{canceled: true}
		case <-ticker.C:
		}
		attempts++

		if conn == nil {
			c, err := p.dialer.Dial(ctx)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Int("attempt", attempts).Msg("failed to dial source ledger")
				metrics.RecordPollAttempt(metrics.SourcePhase, true)
				if attempts >= p.maxAttempts {
					return settlementOutcome{state: types.Timeout}
				}
				continue
			}
			conn = c
		}

		status, err := conn.TransactionStatus(ctx, p.txHash)
		if err != nil {
			// Transient: network errors and RPC unavailability are retried
			// on the next tick, bounded only by the attempt ceiling.
			log.Ctx(ctx).Warn().Err(err).Int("attempt", attempts).Msg("error polling source tx status")
			metrics.RecordPollAttempt(metrics.SourcePhase, true)
		} else {
			metrics.RecordPollAttempt(metrics.SourcePhase, false)
			if status.Settled() {
				return settlementOutcome{
					state:      types.Settled,
					resultCode: status.ResultCode,
					settledAt:  status.CloseTime,
				}
			}
			if status.DefinitiveFailure() {
				return settlementOutcome{
					state:      types.Failed,
					resultCode: status.ResultCode,
				}
			}
		}

		if attempts >= p.maxAttempts {
			return settlementOutcome{state: types.Timeout}
		}
	}
}
