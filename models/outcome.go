package models

// FailureReason is a stable machine-readable tag explaining a rejection.
// Callers branch on these values, so they never change once shipped.
type FailureReason string

const (
	ReasonUnsupportedScheme   FailureReason = "unsupported_scheme"
	ReasonNetworkMismatch     FailureReason = "network_mismatch"
	ReasonLookupFailed        FailureReason = "transaction_lookup_failed"
	ReasonNotFound            FailureReason = "transaction_not_found"
	ReasonTransactionFailed   FailureReason = "transaction_failed"
	ReasonTransactionPending  FailureReason = "transaction_pending"
	ReasonNotFinalized        FailureReason = "transaction_not_finalized"
	ReasonSenderMismatch      FailureReason = "sender_mismatch"
	ReasonRecipientMismatch   FailureReason = "recipient_mismatch"
	ReasonInsufficientAmount  FailureReason = "insufficient_amount"
	ReasonAssetMismatch       FailureReason = "asset_mismatch"
	ReasonFinalizationTimeout FailureReason = "finalization_timeout"
	ReasonFinalizationFailed  FailureReason = "finalization_failed"
)

// VerificationOutcome is the verdict of a non-blocking verification pass.
// Payer is populated on success and on failure whenever a sender is known.
type VerificationOutcome struct {
	IsValid bool          `json:"isValid"`
	Reason  FailureReason `json:"invalidReason,omitempty"`
	Payer   string        `json:"payer,omitempty"`
}

// SettlementOutcome is the result of a full settlement attempt.
type SettlementOutcome struct {
	Success       bool          `json:"success"`
	TransactionID string        `json:"transaction,omitempty"`
	Network       string        `json:"network,omitempty"`
	Reason        FailureReason `json:"errorReason,omitempty"`
	Payer         string        `json:"payer,omitempty"`
}
