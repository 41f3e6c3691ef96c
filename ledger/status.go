package ledger

import "github.com/clearlane/paysettle/models"

// Raw status strings reported by grid-family nodes.
const (
	RawReceived  = "received"
	RawCommitted = "committed"
	RawFinalized = "finalized"
)

// MapStatus translates a node's raw status plus an optional rejection detail
// into a lifecycle state. A rejection always wins: nodes report reject
// reasons alongside committed and even finalized statuses, and such
// transactions must never count as good.
func MapStatus(raw, rejectReason string) models.LifecycleState {
	if rejectReason != "" {
		return models.StateFailed
	}
	switch raw {
	case RawReceived, "pending":
		return models.StatePending
	case RawCommitted:
		return models.StateCommitted
	case RawFinalized:
		return models.StateFinalized
	case "failed", "rejected":
		return models.StateFailed
	default:
		// Unknown statuses count as still in flight; a later poll sees the
		// real state once the node catches up.
		return models.StatePending
	}
}
