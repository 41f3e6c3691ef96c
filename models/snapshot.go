package models

// LifecycleState is the coarse lifecycle a ledger reports for a transaction.
type LifecycleState string

const (
	StatePending   LifecycleState = "pending"
	StateCommitted LifecycleState = "committed"
	StateFinalized LifecycleState = "finalized"
	StateFailed    LifecycleState = "failed"
)

// Terminal reports whether the state can never change again for a transaction.
func (s LifecycleState) Terminal() bool {
	return s == StateFinalized || s == StateFailed
}

// TransactionSnapshot is a point-in-time read of a transaction's on-ledger
// status. Sender, recipient and amount may be absent before the transaction is
// included in a block; Asset is "" for the ledger's native asset and a
// compound token address otherwise.
type TransactionSnapshot struct {
	TransactionID string         `json:"transaction_id"`
	BlockID       string         `json:"block_id,omitempty"`
	State         LifecycleState `json:"state"`
	Sender        string         `json:"sender,omitempty"`
	Recipient     string         `json:"recipient,omitempty"`
	Amount        string         `json:"amount,omitempty"`
	Asset         string         `json:"asset,omitempty"`
	ErrorDetail   string         `json:"error_detail,omitempty"`
}
