package mock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearlane/paysettle/models"
)

func snap(state models.LifecycleState) models.TransactionSnapshot {
	return models.TransactionSnapshot{TransactionID: "tx-1", State: state}
}

func TestScriptWalksTimelineInOrder(t *testing.T) {
	source := NewSource()
	source.Script("tx-1", snap(models.StatePending), snap(models.StateCommitted))
	source.FailWith("tx-1", errors.New("connection reset"))
	source.Script("tx-1", snap(models.StateCommitted))

	ctx := context.Background()

	got, err := source.GetStatus(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatePending, got.State)

	got, err = source.GetStatus(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.StateCommitted, got.State)

	_, err = source.GetStatus(ctx, "tx-1")
	require.Error(t, err)

	// The last step repeats forever.
	for i := 0; i < 3; i++ {
		got, err = source.GetStatus(ctx, "tx-1")
		require.NoError(t, err)
		assert.Equal(t, models.StateCommitted, got.State)
	}
	assert.Equal(t, 6, source.Calls("tx-1"))
}

// Once a terminal snapshot has been served, every later lookup reports the
// same terminal state no matter what else was scripted, matching a real
// ledger's lifecycle.
func TestTerminalStateSticks(t *testing.T) {
	source := NewSource()
	source.Script("tx-1", snap(models.StatePending), snap(models.StateCommitted), snap(models.StateFinalized))
	// Garbage after the terminal step must never surface.
	source.FailWith("tx-1", errors.New("connection reset"))
	source.Script("tx-1", snap(models.StatePending))

	ctx := context.Background()
	var got *models.TransactionSnapshot
	var err error
	for i := 0; i < 3; i++ {
		got, err = source.GetStatus(ctx, "tx-1")
		require.NoError(t, err)
	}
	require.Equal(t, models.StateFinalized, got.State)

	for i := 0; i < 5; i++ {
		got, err = source.GetStatus(ctx, "tx-1")
		require.NoError(t, err)
		assert.Equal(t, models.StateFinalized, got.State, "a finalized transaction must never regress")
	}
}

func TestFailedStateSticks(t *testing.T) {
	source := NewSource()
	source.Script("tx-1", snap(models.StateFailed))
	source.Script("tx-1", snap(models.StateCommitted))

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		got, err := source.GetStatus(ctx, "tx-1")
		require.NoError(t, err)
		assert.Equal(t, models.StateFailed, got.State)
	}
}

func TestUnscriptedTransactionIsAbsent(t *testing.T) {
	source := NewSource()

	got, err := source.GetStatus(context.Background(), "tx-unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, source.Calls("tx-unknown"))
}
