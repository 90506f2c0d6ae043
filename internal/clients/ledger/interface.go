package ledger

import (
	"context"
	"time"
)

// TxStatus is the outcome of a source-ledger transaction status query.
// ResultCode is empty while the transaction has not reached a validated
// ledger; once set it is either the success code or a definitive failure.
type TxStatus struct {
	Validated  bool
	ResultCode string
	// CloseTime is the ledger-reported close time of the validated ledger
	// containing the transaction, only meaningful on success. It is the
	// authoritative settlement timestamp, not the wall-clock receipt time.
	CloseTime time.Time
}

// ResultSuccess is the source ledger's engine result for a settled payment.
const ResultSuccess = "tesSUCCESS"

// Settled reports whether the transaction reached a successful, validated outcome.
func (s *TxStatus) Settled() bool {
	return s.Validated && s.ResultCode == ResultSuccess
}

// DefinitiveFailure reports whether the ledger returned a validated
// non-success result code, after which the transaction will never settle.
func (s *TxStatus) DefinitiveFailure() bool {
	return s.Validated && s.ResultCode != "" && s.ResultCode != ResultSuccess
}

// Conn is one open connection to the source ledger. A settlement poller
// acquires exactly one Conn for the lifetime of its poll loop and must
// release it on every exit path.
type Conn interface {
	TransactionStatus(ctx context.Context, txHash string) (*TxStatus, error)
	Close()
}

// Dialer hands out ledger connections. It is injected into the orchestrator
// so pollers never reach for process-wide client state.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}
