package ledger

import (
	"context"

	"github.com/clearlane/paysettle/models"
)

// StatusSource abstracts a ledger node for status reads. Implementations must
// be safe for concurrent use; the engine shares one source across requests.
type StatusSource interface {
	// GetStatus returns the current snapshot for a transaction, or (nil, nil)
	// when the ledger has no record of it. Errors mean the node could not be
	// asked, never "not found".
	GetStatus(ctx context.Context, txID string) (*models.TransactionSnapshot, error)
}

// FinalitySubscriber is an optional capability of a StatusSource: a push
// stream of status updates for one transaction. The current snapshot is
// delivered first, then one message per transition; the update channel closes
// after a terminal snapshot. Cancelling ctx tears the stream down.
//
// Whether a source offers this is decided once, when the source is built; the
// waiter checks for it with a type assertion at construction.
type FinalitySubscriber interface {
	SubscribeStatus(ctx context.Context, txID string) (<-chan models.TransactionSnapshot, <-chan error, error)
}
