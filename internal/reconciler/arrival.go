package reconciler

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients/explorer"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/observability/metrics"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/utils"
)

// amountTolerance is the fixed absolute tolerance for amount matching.
// The per-request fraction policy makes amounts differ by at least 1e-4,
// so anything within 1e-9 of the expected amount is the same transfer.
var amountTolerance = decimal.New(1, -9)

const defaultTokenDecimals = 18

// arrivalOutcome is the terminal result of one arrival match loop.
type arrivalOutcome struct {
	state             types.TransferState // Arrived or Timeout
	destinationTxHash string
	arrivedAt         time.Time
	bridgingDuration  time.Duration
	canceled          bool
}

// arrivalMatcher watches the destination transfer index for an inbound
// transfer matching this record. There is no shared transaction id across
// chains, so matching is by the (recipient, amount, time-window) triple:
// recipient equality is case-insensitive, the decoded amount must fall
// within amountTolerance of the expected amount, and the item timestamp
// must be strictly after the source settlement time. Items at or before
// settlement never match, which keeps the bridging duration non-negative
// by construction.
type arrivalMatcher struct {
	index              explorer.Client
	destinationAddress string
	expectedAmount     decimal.Decimal
	settledAt          time.Time
	interval           time.Duration
	maxAttempts        int
}

func (m *arrivalMatcher) run(ctx context.Context) arrivalOutcome {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return arrivalOutcome{canceled: true}
		case <-ticker.C:
		}
		attempts++

		items, err := m.index.TokenTransfers(ctx, m.destinationAddress)
		if err != nil {
			// The matcher never fails fast on transport errors, only on
			// exhausting the attempt ceiling.
			log.Ctx(ctx).Warn().Err(err).Int("attempt", attempts).Msg("error polling destination transfer index")
			metrics.RecordPollAttempt(metrics.DestinationPhase, true)
		} else {
			metrics.RecordPollAttempt(metrics.DestinationPhase, false)
			if outcome, ok := m.findMatch(ctx, items); ok {
				return outcome
			}
		}

		if attempts >= m.maxAttempts {
			return arrivalOutcome{state: types.Timeout}
		}
	}
}

// findMatch scans the index items in the order the index returned them and
// returns the first one satisfying all match criteria.
func (m *arrivalMatcher) findMatch(ctx context.Context, items []explorer.TokenTransfer) (arrivalOutcome, bool) {
	wantAddress := utils.NormalizeEvmAddress(m.destinationAddress)

	for _, item := range items {
		if utils.NormalizeEvmAddress(item.To.Hash) != wantAddress {
			continue
		}

		decoded, err := decodeAmount(item.Total)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("destinationTxHash", item.TransactionHash).Msg("skipping index item with undecodable amount")
			continue
		}
		if decoded.Sub(m.expectedAmount).Abs().Cmp(amountTolerance) > 0 {
			continue
		}

		arrivedAt, err := utils.ParseTimestamp(item.Timestamp)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("destinationTxHash", item.TransactionHash).Msg("skipping index item with undecodable timestamp")
			continue
		}
		// Strictly after settlement: stale transfers that predate this
		// request are someone else's.
		if !arrivedAt.After(m.settledAt) {
			continue
		}

		return arrivalOutcome{
			state:             types.Arrived,
			destinationTxHash: item.TransactionHash,
			arrivedAt:         arrivedAt,
			bridgingDuration:  arrivedAt.Sub(m.settledAt),
		}, true
	}

	return arrivalOutcome{}, false
}

// decodeAmount converts the index's raw integer value and decimal scale
// into the token amount: value / 10^decimals.
func decodeAmount(total explorer.Amount) (decimal.Decimal, error) {
	raw, err := decimal.NewFromString(total.Value)
	if err != nil {
		return decimal.Decimal{}, err
	}

	decimals := defaultTokenDecimals
	if total.Decimals != "" {
		decimals, err = strconv.Atoi(total.Decimals)
		if err != nil {
			return decimal.Decimal{}, err
		}
	}

	return raw.Shift(int32(-decimals)), nil
}
