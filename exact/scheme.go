package exact

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clearlane/paysettle/ledger"
	"github.com/clearlane/paysettle/models"
)

// DefaultFinalityTimeout bounds how long Settle waits for a transaction to
// finalize before giving up.
const DefaultFinalityTimeout = 60 * time.Second

// Scheme verifies and settles exact-scheme payments against one ledger
// network. It holds no mutable state, so any number of verifications and
// settlements may run concurrently over the shared status source.
type Scheme struct {
	matcher      Matcher
	source       ledger.StatusSource
	waiter       *ledger.FinalityWaiter
	timeout      time.Duration
	pollInterval time.Duration
	logger       *logrus.Entry
}

type Option func(*Scheme)

// WithNetwork sets the chain this engine instance settles on.
func WithNetwork(network string) Option {
	return func(s *Scheme) {
		s.matcher.Network = network
	}
}

// WithRequireFinality controls whether verification and settlement demand
// finalized transactions. It defaults to on; turning it off trades certainty
// for latency on chains where committed is almost always good enough.
func WithRequireFinality(require bool) Option {
	return func(s *Scheme) {
		s.matcher.RequireFinality = require
	}
}

func WithFinalityTimeout(d time.Duration) Option {
	return func(s *Scheme) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(s *Scheme) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

func WithLogger(entry *logrus.Entry) Option {
	return func(s *Scheme) {
		s.logger = entry
	}
}

func New(source ledger.StatusSource, opts ...Option) *Scheme {
	s := &Scheme{
		matcher:      Matcher{RequireFinality: true},
		source:       source,
		timeout:      DefaultFinalityTimeout,
		pollInterval: ledger.DefaultPollInterval,
		logger:       logrus.WithField("service", "exact-scheme"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.waiter = ledger.NewFinalityWaiter(source,
		ledger.WithPollInterval(s.pollInterval),
		ledger.WithWaiterLogger(s.logger),
	)
	return s
}

// Verify runs a single status lookup and reconciles the result against the
// requirement. It never waits: a payment valid in every respect except
// finality comes back as transaction_not_finalized, letting callers tell
// "invalid" apart from "not yet".
func (s *Scheme) Verify(ctx context.Context, req models.PaymentRequirement, claim models.PaymentClaim) models.VerificationOutcome {
	return s.verifyWith(ctx, s.matcher, req, claim)
}

func (s *Scheme) verifyWith(ctx context.Context, m Matcher, req models.PaymentRequirement, claim models.PaymentClaim) models.VerificationOutcome {
	snap, err := s.source.GetStatus(ctx, claim.TransactionID)
	if err != nil {
		s.logger.WithError(err).WithField("tx", claim.TransactionID).Warn("transaction lookup failed")
		return models.VerificationOutcome{Reason: models.ReasonLookupFailed, Payer: claim.Sender}
	}
	return m.Match(req, claim, snap)
}

// Settle confirms a payment end to end. The payment is verified first, with
// the finality check relaxed since settlement is about to wait for finality
// itself; any other verification failure is mirrored into the settlement
// outcome and the ledger is not touched again. A valid payment then waits,
// bounded by the configured timeout, unless finality is not required at all.
//
// Settling an already-finalized transaction again returns the same success:
// finality is a fact about the ledger, not a side effect of this call.
func (s *Scheme) Settle(ctx context.Context, req models.PaymentRequirement, claim models.PaymentClaim) models.SettlementOutcome {
	preMatcher := s.matcher
	preMatcher.RequireFinality = false

	verdict := s.verifyWith(ctx, preMatcher, req, claim)
	if !verdict.IsValid {
		return s.failed(req, claim, verdict.Reason, verdict.Payer)
	}
	if !s.matcher.RequireFinality {
		return s.settled(req, claim, verdict.Payer)
	}

	final, err := s.waiter.AwaitFinality(ctx, claim.TransactionID, s.timeout)
	if err != nil {
		s.logger.WithError(err).WithField("tx", claim.TransactionID).Warn("finality wait aborted")
		return s.failed(req, claim, models.ReasonFinalizationFailed, verdict.Payer)
	}
	if final == nil || final.State != models.StateFinalized {
		return s.failed(req, claim, models.ReasonFinalizationTimeout, verdict.Payer)
	}

	payer := verdict.Payer
	if final.Sender != "" {
		payer = final.Sender
	}
	return s.settled(req, claim, payer)
}

func (s *Scheme) settled(req models.PaymentRequirement, claim models.PaymentClaim, payer string) models.SettlementOutcome {
	s.logger.WithFields(logrus.Fields{"tx": claim.TransactionID, "network": req.Network}).Info("payment settled")
	return models.SettlementOutcome{
		Success:       true,
		TransactionID: claim.TransactionID,
		Network:       req.Network,
		Payer:         payer,
	}
}

func (s *Scheme) failed(req models.PaymentRequirement, claim models.PaymentClaim, reason models.FailureReason, payer string) models.SettlementOutcome {
	return models.SettlementOutcome{
		TransactionID: claim.TransactionID,
		Network:       req.Network,
		Reason:        reason,
		Payer:         payer,
	}
}
