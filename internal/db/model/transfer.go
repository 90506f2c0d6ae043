package model

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/types"
)

const TransferCollection = "transfers"

// TransferDocument is the durable record of one cross-chain transfer,
// keyed by the source transaction hash. The settlement poller and the
// arrival matcher each own a disjoint set of fields; once State reaches a
// terminal value the document is immutable.
type TransferDocument struct {
	SourceTxHash         string              `bson:"_id"` // Primary key
	DestinationAddress   string              `bson:"destination_address"`
	Amount               string              `bson:"amount"` // canonical decimal string
	State                types.TransferState `bson:"state"`
	SourceResultCode     string              `bson:"source_result_code,omitempty"`
	SourceSubmittedAt    time.Time           `bson:"source_submitted_at"`
	SourceSettledAt      *time.Time          `bson:"source_settled_at,omitempty"`
	DestinationTxHash    string              `bson:"destination_tx_hash,omitempty"`
	DestinationArrivedAt *time.Time          `bson:"destination_arrived_at,omitempty"`
	BridgingDurationMs   *int64              `bson:"bridging_duration_ms,omitempty"`
}

// AmountDecimal parses the persisted amount string back into a decimal.
// The amount is written once at creation from a validated decimal, so a
// parse failure here means the document was corrupted out of band.
func (d *TransferDocument) AmountDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(d.Amount)
}

type TransferByAddressPagination struct {
	SourceSubmittedAt time.Time `json:"source_submitted_at"`
	SourceTxHash      string    `json:"source_tx_hash"`
}

func DecodeTransferByAddressPaginationToken(token string) (*TransferByAddressPagination, error) {
	tokenBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var p TransferByAddressPagination
	err = json.Unmarshal(tokenBytes, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *TransferByAddressPagination) GetPaginationToken() (string, error) {
	tokenBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}

func BuildTransferByAddressPaginationToken(d TransferDocument) (string, error) {
	page := &TransferByAddressPagination{
		SourceSubmittedAt: d.SourceSubmittedAt,
		SourceTxHash:      d.SourceTxHash,
	}
	token, err := page.GetPaginationToken()
	if err != nil {
		return "", err
	}
	return token, nil
}
