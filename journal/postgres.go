package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/clearlane/paysettle/models"
)

// PostgresStore records settlements in the settlements table so that a shared
// journal survives restarts. Writes are idempotent; replaying a key is a
// no-op.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, key string) (*models.SettlementOutcome, error) {
	outcome := models.SettlementOutcome{Success: true}
	err := p.db.QueryRowContext(ctx,
		`SELECT transaction_id, network, payer FROM settlements WHERE key = $1`,
		key,
	).Scan(&outcome.TransactionID, &outcome.Network, &outcome.Payer)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settlement: %w", err)
	}
	return &outcome, nil
}

func (p *PostgresStore) Put(ctx context.Context, key string, outcome models.SettlementOutcome) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO settlements (key, transaction_id, network, payer, settled_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (key) DO NOTHING`,
		key, outcome.TransactionID, outcome.Network, outcome.Payer, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record settlement: %w", err)
	}
	return nil
}
