package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	goose "github.com/pressly/goose/v3"

	"github.com/guttosm/cnbpulse/db/migrations"
	"github.com/guttosm/cnbpulse/internal/logger"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// migrateUp is an indirection so repository tests can skip real migrations.
var migrateUp = func(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through the application logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logger.L().Debug().Str("component", "goose").Msgf(format, v...)
}

// Fatalf logs at error level only; goose returns the failure to migrateUp.
func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logger.L().Error().Str("component", "goose").Msgf(format, v...)
}
