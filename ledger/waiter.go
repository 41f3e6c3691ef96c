package ledger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clearlane/paysettle/models"
)

// DefaultPollInterval is how often the waiter re-reads status when the source
// cannot push updates.
const DefaultPollInterval = 2 * time.Second

// FinalityWaiter blocks until a transaction reaches a terminal state. It uses
// the source's push subscription when one is offered and falls back to
// fixed-interval polling otherwise; that choice is made once, at construction.
type FinalityWaiter struct {
	source       StatusSource
	subscriber   FinalitySubscriber // nil when the source cannot push
	pollInterval time.Duration
	logger       *logrus.Entry
}

type WaiterOption func(*FinalityWaiter)

func WithPollInterval(d time.Duration) WaiterOption {
	return func(w *FinalityWaiter) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

func WithWaiterLogger(entry *logrus.Entry) WaiterOption {
	return func(w *FinalityWaiter) {
		w.logger = entry
	}
}

func NewFinalityWaiter(source StatusSource, opts ...WaiterOption) *FinalityWaiter {
	w := &FinalityWaiter{
		source:       source,
		pollInterval: DefaultPollInterval,
		logger:       logrus.WithField("service", "finality-waiter"),
	}
	if sub, ok := source.(FinalitySubscriber); ok {
		w.subscriber = sub
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AwaitFinality returns the terminal snapshot for txID, or (nil, nil) when the
// timeout budget elapses first. Transport errors inside the wait are logged
// and retried until the budget runs out; the only hard error is cancellation
// of the caller's own context. A transient snapshot observed just before the
// budget expires is discarded, not returned.
func (w *FinalityWaiter) AwaitFinality(ctx context.Context, txID string, timeout time.Duration) (*models.TransactionSnapshot, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if w.subscriber != nil {
		return w.awaitPush(waitCtx, ctx, txID)
	}
	return w.awaitPoll(waitCtx, ctx, txID)
}

func (w *FinalityWaiter) awaitPush(waitCtx, parent context.Context, txID string) (*models.TransactionSnapshot, error) {
	updates, errs, err := w.subscriber.SubscribeStatus(waitCtx, txID)
	if err != nil {
		w.logger.WithError(err).WithField("tx", txID).Warn("status subscription unavailable, polling instead")
		return w.awaitPoll(waitCtx, parent, txID)
	}

	for {
		select {
		case <-waitCtx.Done():
			return w.budgetResult(parent)
		case err, ok := <-errs:
			if ok && err != nil && waitCtx.Err() == nil {
				w.logger.WithError(err).WithField("tx", txID).Warn("status stream failed, polling instead")
			}
			return w.awaitPoll(waitCtx, parent, txID)
		case snap, ok := <-updates:
			if !ok {
				// Stream ended without a terminal snapshot; poll out the
				// remaining budget.
				return w.awaitPoll(waitCtx, parent, txID)
			}
			if snap.State.Terminal() {
				out := snap
				return &out, nil
			}
		}
	}
}

func (w *FinalityWaiter) awaitPoll(waitCtx, parent context.Context, txID string) (*models.TransactionSnapshot, error) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		snap, err := w.source.GetStatus(waitCtx, txID)
		if err != nil {
			if waitCtx.Err() == nil {
				w.logger.WithError(err).WithField("tx", txID).Warn("status poll failed, retrying")
			}
		} else if snap != nil && snap.State.Terminal() {
			return snap, nil
		}

		select {
		case <-waitCtx.Done():
			return w.budgetResult(parent)
		case <-ticker.C:
		}
	}
}

// budgetResult distinguishes an exhausted wait budget, which reads as absent,
// from cancellation by the caller, which is an error.
func (w *FinalityWaiter) budgetResult(parent context.Context) (*models.TransactionSnapshot, error) {
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}
