package utils

import (
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

// QualifiedStatesToSettled returns the qualified existing states to transition to "settled"
// The target state itself qualifies so a repeated settlement write stays idempotent.
func QualifiedStatesToSettled() []types.TransferState {
	return []types.TransferState{types.Pending, types.Settled}
}

// QualifiedStatesToWatching returns the qualified existing states to transition to "watching"
func QualifiedStatesToWatching() []types.TransferState {
	return []types.TransferState{types.Settled}
}

// QualifiedStatesToArrived returns the qualified existing states to transition to "arrived"
// The target state itself qualifies so a repeated arrival write stays idempotent.
func QualifiedStatesToArrived() []types.TransferState {
	return []types.TransferState{types.Watching, types.Arrived}
}

// QualifiedStatesToFailed returns the qualified existing states to transition to "failed"
// Only the source phase can fail; the destination phase either arrives or times out.
func QualifiedStatesToFailed() []types.TransferState {
	return []types.TransferState{types.Pending}
}

// QualifiedStatesToTimeout returns the qualified existing states to transition to "timeout"
// Either phase may exhaust its attempt ceiling.
func QualifiedStatesToTimeout() []types.TransferState {
	return []types.TransferState{types.Pending, types.Settled, types.Watching}
}
