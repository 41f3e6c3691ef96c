package journal

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearlane/paysettle/models"
)

func TestPostgresStoreGet(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"transaction_id", "network", "payer"}).
		AddRow("tx-1", "grid-devnet", "acc-alice")
	dbMock.ExpectQuery("SELECT transaction_id, network, payer FROM settlements").
		WithArgs("key-1").
		WillReturnRows(rows)

	got, err := store.Get(context.Background(), "key-1")
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Equal(t, "tx-1", got.TransactionID)
	assert.Equal(t, "grid-devnet", got.Network)
	assert.Equal(t, "acc-alice", got.Payer)

	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStoreGetMiss(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	dbMock.ExpectQuery("SELECT transaction_id, network, payer FROM settlements").
		WithArgs("key-2").
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "network", "payer"}))

	_, err = store.Get(context.Background(), "key-2")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgresStorePut(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)

	dbMock.ExpectExec("INSERT INTO settlements").
		WithArgs("key-3", "tx-3", "grid-devnet", "acc-alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.Put(context.Background(), "key-3", models.SettlementOutcome{
		Success:       true,
		TransactionID: "tx-3",
		Network:       "grid-devnet",
		Payer:         "acc-alice",
	})
	require.NoError(t, err)

	require.NoError(t, dbMock.ExpectationsWereMet())
}
