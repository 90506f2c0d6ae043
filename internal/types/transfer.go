package types

// TransferState is the externally visible summary of a transfer record.
// It walks Pending -> (Settled | Failed | Timeout) on the source phase and,
// once settled, Watching -> (Arrived | Timeout) on the destination phase.
type TransferState string

const (
	// Pending: the source transaction was submitted and is being polled for finality.
	Pending TransferState = "pending"
	// Settled: the source ledger reported a successful, validated result.
	Settled TransferState = "settled"
	// Watching: the destination transfer index is being polled for the bridged arrival.
	Watching TransferState = "watching"
	// Arrived: an inbound destination transfer was matched to this record. Terminal.
	Arrived TransferState = "arrived"
	// Failed: the source ledger reported a definitive non-success result code. Terminal.
	Failed TransferState = "failed"
	// Timeout: the attempt ceiling was reached without a definitive outcome. Terminal.
	Timeout TransferState = "timeout"
)

func (s TransferState) ToString() string {
	return string(s)
}

// IsTerminal reports whether no further transitions may occur for a record in state s.
func (s TransferState) IsTerminal() bool {
	switch s {
	case Arrived, Failed, Timeout:
		return true
	default:
		return false
	}
}
