package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/cnbpulse/config"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const pingTimeout = 5 * time.Second

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitPostgres opens a PostgreSQL pool using cfg.Postgres.URL and pings it.
//
// Behavior:
//   - Opens a database handle with sql.Open (no connection is made yet).
//   - Pings the database (5s timeout) to validate connectivity.
//   - Closes the handle again if the ping fails.
//
// Returns:
//   - *sql.DB: an open database connection pool (safe for concurrent use).
//   - error: if opening or pinging the database fails.
//
// Example usage:
//
//	db, err := app.InitPostgres(cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
func InitPostgres(cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.Postgres.URL
	if dsn == "" {
		dsn = cfg.Postgres.DSN()
	}

	db, err := sqlOpener("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return db, nil
}

// postgresOpener is an indirection used by InitializeApp and RunIngestion;
// overridden in tests to avoid real connections.
var postgresOpener = InitPostgres
