package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

const (
	testTxHash      = "A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2C3D4E5F6A7B8C9D0A1B2"
	testDestAddress = "0x1d4c88f4d876b93e0d969cb31a332cec9e5a2ce2"
)

// filterMatches evaluates a flat equality/$in filter against a document, the
// way the store's row-scoped updates select their target.
func filterMatches(filter, doc bson.M) bool {
	for key, want := range filter {
		if cond, ok := want.(bson.M); ok {
			matched := false
			for _, state := range cond["$in"].([]types.TransferState) {
				if doc[key] == state {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
			continue
		}
		if doc[key] != want {
			return false
		}
	}
	return true
}

func applyUpdate(doc, update bson.M) bson.M {
	updated := bson.M{}
	for k, v := range doc {
		updated[k] = v
	}
	for k, v := range update["$set"].(bson.M) {
		updated[k] = v
	}
	return updated
}

func pendingTransferDoc() bson.M {
	return bson.M{
		"_id":                 testTxHash,
		"destination_address": testDestAddress,
		"amount":              "90.0001",
		"state":               types.Pending,
	}
}

func TestSettlementUpdateIsIdempotent(t *testing.T) {
	settledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := pendingTransferDoc()

	require.True(t, filterMatches(settlementFilter(testTxHash), doc))
	settled := applyUpdate(doc, settlementUpdate(settledAt))
	assert.Equal(t, types.Settled, settled["state"])
	assert.Equal(t, settledAt, settled["source_settled_at"])

	// A settled document still qualifies, and re-applying the same write
	// changes nothing.
	require.True(t, filterMatches(settlementFilter(testTxHash), settled))
	again := applyUpdate(settled, settlementUpdate(settledAt))
	assert.Equal(t, settled, again)
}

func TestArrivalUpdateIsIdempotent(t *testing.T) {
	arrivedAt := time.Date(2024, 5, 1, 12, 0, 7, 0, time.UTC)
	doc := pendingTransferDoc()
	doc["state"] = types.Watching

	require.True(t, filterMatches(arrivalFilter(testTxHash), doc))
	arrived := applyUpdate(doc, arrivalUpdate("0xdeadbeef", arrivedAt, 7000))
	assert.Equal(t, types.Arrived, arrived["state"])
	assert.Equal(t, int64(7000), arrived["bridging_duration_ms"])

	require.True(t, filterMatches(arrivalFilter(testTxHash), arrived))
	again := applyUpdate(arrived, arrivalUpdate("0xdeadbeef", arrivedAt, 7000))
	assert.Equal(t, arrived, again)
}

func TestSettlementFilterScope(t *testing.T) {
	doc := pendingTransferDoc()
	for _, state := range []types.TransferState{types.Watching, types.Arrived, types.Failed, types.Timeout} {
		doc["state"] = state
		assert.False(t, filterMatches(settlementFilter(testTxHash), doc), "state %s", state)
	}

	// Row-scoped: a different record never matches.
	doc = pendingTransferDoc()
	doc["_id"] = "0000000000000000000000000000000000000000000000000000000000000000"
	assert.False(t, filterMatches(settlementFilter(testTxHash), doc))
}

func TestArrivalFilterScope(t *testing.T) {
	doc := pendingTransferDoc()
	for _, state := range []types.TransferState{types.Pending, types.Settled, types.Failed, types.Timeout} {
		doc["state"] = state
		assert.False(t, filterMatches(arrivalFilter(testTxHash), doc), "state %s", state)
	}
}

func TestAmbiguousTransferFilterCoversInFlightStatesOnly(t *testing.T) {
	filter := ambiguousTransferFilter(testDestAddress, "90.0001")

	doc := pendingTransferDoc()
	for _, state := range []types.TransferState{types.Pending, types.Settled, types.Watching} {
		doc["state"] = state
		assert.True(t, filterMatches(filter, doc), "state %s", state)
	}
	// Terminal records never block a new registration.
	for _, state := range []types.TransferState{types.Arrived, types.Failed, types.Timeout} {
		doc["state"] = state
		assert.False(t, filterMatches(filter, doc), "state %s", state)
	}

	// Same address with a different amount is unambiguous.
	doc["state"] = types.Pending
	doc["amount"] = "90.0002"
	assert.False(t, filterMatches(filter, doc))
}

func TestTransitionUpdateOmitsEmptyResultCode(t *testing.T) {
	set := transitionUpdate(types.Timeout, "")["$set"].(bson.M)
	assert.Equal(t, types.Timeout, set["state"])
	_, hasCode := set["source_result_code"]
	assert.False(t, hasCode)

	set = transitionUpdate(types.Failed, "tecPATH_DRY")["$set"].(bson.M)
	assert.Equal(t, "tecPATH_DRY", set["source_result_code"])
}
