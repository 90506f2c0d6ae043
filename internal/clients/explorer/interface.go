package explorer

import (
	"context"
)

// TokenTransfer is one inbound ERC-20 transfer item as reported by the
// destination chain's explorer index.
type TokenTransfer struct {
	To              Party  `json:"to"`
	Total           Amount `json:"total"`
	TransactionHash string `json:"transaction_hash"`
	Timestamp       string `json:"timestamp"`
}

type Party struct {
	Hash string `json:"hash"`
}

// Amount carries the raw integer value and its decimal scale; the decoded
// amount is value / 10^decimals.
type Amount struct {
	Value    string `json:"value"`
	Decimals string `json:"decimals"`
}

// Client reads the destination chain's transfer index.
type Client interface {
	// TokenTransfers returns the most recent inbound transfers of the bridged
	// token for the given address. An index response of "not found" is a
	// valid, expected state (no transfers yet) and yields an empty list.
	TokenTransfers(ctx context.Context, destinationAddress string) ([]TokenTransfer, error)
}
