package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// The outcome field names are part of the payment protocol; clients key off
// them, so renaming a tag is a breaking change.
func TestOutcomeWireFormat(t *testing.T) {
	verification, err := json.Marshal(VerificationOutcome{
		IsValid: false,
		Reason:  ReasonInsufficientAmount,
		Payer:   "acc-sender",
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"isValid":false,"invalidReason":"insufficient_amount","payer":"acc-sender"}`, string(verification))

	settlement, err := json.Marshal(SettlementOutcome{
		Success:       true,
		TransactionID: "deadbeef",
		Network:       "grid-devnet",
		Payer:         "acc-sender",
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"success":true,"transaction":"deadbeef","network":"grid-devnet","payer":"acc-sender"}`, string(settlement))
}

func TestLifecycleTerminal(t *testing.T) {
	require.False(t, StatePending.Terminal())
	require.False(t, StateCommitted.Terminal())
	require.True(t, StateFinalized.Terminal())
	require.True(t, StateFailed.Terminal())
}
