package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearlane/paysettle/models"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reject string
		want   models.LifecycleState
	}{
		{name: "received", raw: "received", want: models.StatePending},
		{name: "pending alias", raw: "pending", want: models.StatePending},
		{name: "committed", raw: "committed", want: models.StateCommitted},
		{name: "finalized", raw: "finalized", want: models.StateFinalized},
		{name: "failed", raw: "failed", want: models.StateFailed},
		{name: "rejected alias", raw: "rejected", want: models.StateFailed},
		{name: "unknown status reads as pending", raw: "absorbed", want: models.StatePending},
		{name: "rejection beats committed", raw: "committed", reject: "serialization failure", want: models.StateFailed},
		{name: "rejection beats finalized", raw: "finalized", reject: "insufficient energy", want: models.StateFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapStatus(tc.raw, tc.reject))
		})
	}
}
