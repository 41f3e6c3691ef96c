package db

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens the settlement journal database and verifies it is reachable.
// The pool is sized for an engine that writes one small row per settled
// payment.
func Connect(databaseURL string) (*sql.DB, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	database.SetMaxOpenConns(10)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(30 * time.Minute)
	return database, database.Ping()
}
