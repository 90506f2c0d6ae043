package reconciler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients/explorer"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

func newArrivalMatcher(index explorer.Client, settledAt time.Time) *arrivalMatcher {
	return &arrivalMatcher{
		index:              index,
		destinationAddress: testDestAddress,
		expectedAmount:     decimal.RequireFromString("90.0001"),
		settledAt:          settledAt,
		interval:           time.Millisecond,
		maxAttempts:        50,
	}
}

func transferItem(hash, value, decimals, txHash string, ts time.Time) explorer.TokenTransfer {
	return explorer.TokenTransfer{
		To:              explorer.Party{Hash: hash},
		Total:           explorer.Amount{Value: value, Decimals: decimals},
		TransactionHash: txHash,
		Timestamp:       ts.Format(time.RFC3339Nano),
	}
}

func TestFindMatchWithinTolerance(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	arrivedAt := settledAt.Add(4 * time.Second)
	m := newArrivalMatcher(nil, settledAt)

	// 90.0001 + 1e-9, inside the tolerance.
	item := transferItem(testDestAddress, "90000100001000000000", "18", "0xabc", arrivedAt)
	outcome, ok := m.findMatch(context.Background(), []explorer.TokenTransfer{item})

	require.True(t, ok)
	assert.Equal(t, types.Arrived, outcome.state)
	assert.Equal(t, "0xabc", outcome.destinationTxHash)
	assert.Equal(t, 4*time.Second, outcome.bridgingDuration)
}

func TestFindMatchOutsideTolerance(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	arrivedAt := settledAt.Add(4 * time.Second)
	m := newArrivalMatcher(nil, settledAt)

	// 90.0001 + 1e-8, just outside the tolerance.
	item := transferItem(testDestAddress, "90000100010000000000", "18", "0xabc", arrivedAt)
	_, ok := m.findMatch(context.Background(), []explorer.TokenTransfer{item})

	assert.False(t, ok)
}

func TestFindMatchRecipientCaseInsensitive(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	arrivedAt := settledAt.Add(time.Second)
	m := newArrivalMatcher(nil, settledAt)

	checksummed := "0x1D4C88F4D876B93E0D969CB31A332CEC9E5A2CE2"
	item := transferItem(checksummed, "90000100000000000000", "18", "0xabc", arrivedAt)
	_, ok := m.findMatch(context.Background(), []explorer.TokenTransfer{item})

	assert.True(t, ok)
}

func TestFindMatchSkipsOtherRecipients(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	arrivedAt := settledAt.Add(time.Second)
	m := newArrivalMatcher(nil, settledAt)

	other := "0x00000000000000000000000000000000000000aa"
	item := transferItem(other, "90000100000000000000", "18", "0xabc", arrivedAt)
	_, ok := m.findMatch(context.Background(), []explorer.TokenTransfer{item})

	assert.False(t, ok)
}

func TestFindMatchRejectsItemsAtOrBeforeSettlement(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newArrivalMatcher(nil, settledAt)

	old := transferItem(testDestAddress, "90000100000000000000", "18", "0xold", settledAt.Add(-time.Minute))
	exact := transferItem(testDestAddress, "90000100000000000000", "18", "0xexact", settledAt)

	_, ok := m.findMatch(context.Background(), []explorer.TokenTransfer{old, exact})
	assert.False(t, ok)

	fresh := transferItem(testDestAddress, "90000100000000000000", "18", "0xfresh", settledAt.Add(time.Millisecond))
	outcome, ok := m.findMatch(context.Background(), []explorer.TokenTransfer{old, exact, fresh})
	require.True(t, ok)
	assert.Equal(t, "0xfresh", outcome.destinationTxHash)
}

func TestFindMatchFirstMatchWins(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := newArrivalMatcher(nil, settledAt)

	first := transferItem(testDestAddress, "90000100000000000000", "18", "0xfirst", settledAt.Add(time.Second))
	second := transferItem(testDestAddress, "90000100000000000000", "18", "0xsecond", settledAt.Add(2*time.Second))

	outcome, ok := m.findMatch(context.Background(), []explorer.TokenTransfer{first, second})
	require.True(t, ok)
	assert.Equal(t, "0xfirst", outcome.destinationTxHash)
}

func TestFindMatchSkipsMalformedItems(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	arrivedAt := settledAt.Add(time.Second)
	m := newArrivalMatcher(nil, settledAt)

	badAmount := transferItem(testDestAddress, "not-a-number", "18", "0xbad", arrivedAt)
	badTimestamp := explorer.TokenTransfer{
		To:              explorer.Party{Hash: testDestAddress},
		Total:           explorer.Amount{Value: "90000100000000000000", Decimals: "18"},
		TransactionHash: "0xbadts",
		Timestamp:       "yesterday",
	}
	good := transferItem(testDestAddress, "90000100000000000000", "18", "0xgood", arrivedAt)

	outcome, ok := m.findMatch(context.Background(), []explorer.TokenTransfer{badAmount, badTimestamp, good})
	require.True(t, ok)
	assert.Equal(t, "0xgood", outcome.destinationTxHash)
}

func TestDecodeAmountScales(t *testing.T) {
	decoded, err := decodeAmount(explorer.Amount{Value: "90000100", Decimals: "6"})
	require.NoError(t, err)
	assert.True(t, decoded.Equal(decimal.RequireFromString("90.0001")))

	// Missing scale defaults to 18.
	decoded, err = decodeAmount(explorer.Amount{Value: "90000100000000000000"})
	require.NoError(t, err)
	assert.True(t, decoded.Equal(decimal.RequireFromString("90.0001")))
}

func TestArrivalMatcherTreatsEmptyIndexAsProgress(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	arrivedAt := settledAt.Add(3 * time.Second)

	// The index answers "no items yet" twice before the transfer shows up,
	// the way a fresh address behaves before its first inbound transfer.
	index := &fakeIndex{responses: []indexResult{
		{items: nil},
		{items: nil},
		{items: []explorer.TokenTransfer{
			transferItem(testDestAddress, "90000100000000000000", "18", "0xabc", arrivedAt),
		}},
	}}

	outcome := newArrivalMatcher(index, settledAt).run(context.Background())

	require.Equal(t, types.Arrived, outcome.state)
	assert.Equal(t, 3*time.Second, outcome.bridgingDuration)
}

func TestArrivalMatcherTimeoutAtCeiling(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	index := &fakeIndex{responses: []indexResult{
		{err: errors.New("index unavailable")},
	}}

	m := newArrivalMatcher(index, settledAt)
	m.maxAttempts = 3

	outcome := m.run(context.Background())

	require.Equal(t, types.Timeout, outcome.state)
	assert.False(t, outcome.canceled)
}

func TestArrivalMatcherCanceled(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	index := &fakeIndex{responses: []indexResult{{items: nil}}}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	m := newArrivalMatcher(index, settledAt)
	m.maxAttempts = 1 << 30

	outcome := m.run(ctx)
	assert.True(t, outcome.canceled)
}
