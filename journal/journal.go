package journal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/clearlane/paysettle/exact"
	"github.com/clearlane/paysettle/models"
)

// ErrNotFound is returned by stores when no settlement is recorded for a key.
var ErrNotFound = errors.New("settlement not found")

// Store persists successful settlement outcomes keyed by payment digest.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (*models.SettlementOutcome, error)
	Put(ctx context.Context, key string, outcome models.SettlementOutcome) error
}

// Key derives the journal key for one payment: a SHA-256 digest over the
// fields that identify it. Retries of the same claim against the same
// requirement always collapse to the same key.
func Key(req models.PaymentRequirement, claim models.PaymentClaim) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		req.Scheme,
		req.Network,
		claim.TransactionID,
		req.Recipient,
		req.Amount,
		req.Asset,
	}, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// Settler wraps a scheme's Settle with the journal: a recorded success is
// served from the store without touching the ledger again, and failures are
// never recorded, so retries always re-run. Journal trouble degrades to plain
// settlement rather than failing the payment.
type Settler struct {
	scheme *exact.Scheme
	store  Store
	logger *logrus.Entry
}

func NewSettler(scheme *exact.Scheme, store Store, logger *logrus.Entry) *Settler {
	if logger == nil {
		logger = logrus.WithField("service", "settlement-journal")
	}
	return &Settler{scheme: scheme, store: store, logger: logger}
}

func (s *Settler) Settle(ctx context.Context, req models.PaymentRequirement, claim models.PaymentClaim) models.SettlementOutcome {
	key := Key(req, claim)

	recorded, err := s.store.Get(ctx, key)
	if err == nil {
		s.logger.WithField("tx", claim.TransactionID).Debug("settlement replayed from journal")
		return *recorded
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.WithError(err).Warn("journal read failed, settling without it")
	}

	outcome := s.scheme.Settle(ctx, req, claim)
	if outcome.Success {
		if err := s.store.Put(ctx, key, outcome); err != nil {
			s.logger.WithError(err).WithField("tx", claim.TransactionID).Warn("failed to record settlement")
		}
	}
	return outcome
}

// Verify passes straight through; verification is read-only and never
// journaled.
func (s *Settler) Verify(ctx context.Context, req models.PaymentRequirement, claim models.PaymentClaim) models.VerificationOutcome {
	return s.scheme.Verify(ctx, req, claim)
}
