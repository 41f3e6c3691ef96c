package exact

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/clearlane/paysettle/models"
)

// SchemeName is the fixed payment scheme this engine settles. Requirements
// carrying any other scheme tag are rejected before the ledger is consulted.
const SchemeName = "exact"

// Matcher reconciles an observed transaction snapshot against a payment
// requirement. It is pure: no I/O, no clock, the same inputs always produce
// the same verdict.
//
// Checks run in a fixed order and stop at the first failure, so a payment
// wrong in several ways always reports the same reason: scheme and network
// first, then existence, lifecycle, and finally the financial fields.
type Matcher struct {
	// Network is the chain this engine instance is attached to.
	Network string
	// RequireFinality demands a finalized snapshot rather than a merely
	// committed one.
	RequireFinality bool
}

// Match returns the verdict for one requirement, claim and snapshot. The
// snapshot is nil when the ledger had no record of the claimed transaction.
// A field absent from the snapshot skips its check; early lifecycle states
// simply have not populated it yet.
func (m Matcher) Match(req models.PaymentRequirement, claim models.PaymentClaim, snap *models.TransactionSnapshot) models.VerificationOutcome {
	payer := claim.Sender
	if snap != nil && snap.Sender != "" {
		payer = snap.Sender
	}

	fail := func(reason models.FailureReason) models.VerificationOutcome {
		return models.VerificationOutcome{Reason: reason, Payer: payer}
	}

	if req.Scheme != SchemeName {
		return fail(models.ReasonUnsupportedScheme)
	}
	if req.Network != m.Network {
		return fail(models.ReasonNetworkMismatch)
	}
	if snap == nil {
		return fail(models.ReasonNotFound)
	}
	if snap.State == models.StateFailed {
		return fail(models.ReasonTransactionFailed)
	}
	if snap.State == models.StatePending {
		return fail(models.ReasonTransactionPending)
	}
	if m.RequireFinality && snap.State != models.StateFinalized {
		return fail(models.ReasonNotFinalized)
	}
	if snap.Sender != "" && !strings.EqualFold(snap.Sender, claim.Sender) {
		return fail(models.ReasonSenderMismatch)
	}
	if snap.Recipient != "" && !strings.EqualFold(snap.Recipient, req.Recipient) {
		return fail(models.ReasonRecipientMismatch)
	}
	if snap.Amount != "" && !covers(snap.Amount, req.Amount) {
		return fail(models.ReasonInsufficientAmount)
	}
	// Exact string equality, where "" names the native asset on both sides.
	if snap.Asset != req.Asset {
		return fail(models.ReasonAssetMismatch)
	}
	return models.VerificationOutcome{IsValid: true, Payer: payer}
}

// covers reports whether paid is at least required. Amounts are unsigned
// base-unit magnitudes carried as decimal strings; anything unparseable or
// negative fails the check rather than blowing up mid-verification.
func covers(paid, required string) bool {
	p, err := decimal.NewFromString(paid)
	if err != nil || p.IsNegative() {
		return false
	}
	r, err := decimal.NewFromString(required)
	if err != nil || r.IsNegative() {
		return false
	}
	return p.GreaterThanOrEqual(r)
}
