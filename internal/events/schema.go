package events

import (
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

const (
	TransferCreatedRoutingKey = "transferCreated"
	TransferUpdatedRoutingKey = "transferUpdated"
)

type EventType string

const (
	EventCreated EventType = "created"
	EventSettled EventType = "settled"
	EventFailed  EventType = "failed"
	EventArrived EventType = "arrived"
	EventTimeout EventType = "timeout"
)

// TransferEvent describes one field-level transition of a transfer record.
// Optional fields are nil when the transition did not touch them; consumers
// merge incrementally and must never overwrite known values with absent ones.
type TransferEvent struct {
	Type               EventType
	SourceTxHash       string
	Status             types.TransferState
	DestinationTxHash  *string
	BridgingDurationMs *int64
}

// Wire payloads published to the external event exchange for UI consumers.

type TransferCreatedMessage struct {
	SourceTxHash string `json:"sourceTxHash"`
	Status       string `json:"status"`
}

type TransferUpdatedMessage struct {
	SourceTxHash       string  `json:"sourceTxHash"`
	Status             string  `json:"status"`
	DestinationTxHash  *string `json:"destinationTxHash,omitempty"`
	BridgingDurationMs *int64  `json:"bridgingDurationMs,omitempty"`
}
