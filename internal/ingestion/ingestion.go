package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/cnbpulse/internal/domain/models"
	"github.com/guttosm/cnbpulse/internal/logger"
	"github.com/guttosm/cnbpulse/internal/storage"
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.RatesRepository {
	return storage.NewRatesRepository(db)
}

// Report summarises one ingestion run.
type Report struct {
	RunID         uuid.UUID
	ReferenceDate time.Time
	Window        Window
	Skipped       []SkippedLine
	Gate          GateResult
	PersistedRows int
}

// ProcessWindow runs one full ingestion for the trailing window ending at today.
//
//   - db:    open *sql.DB (PostgreSQL).
//   - feed:  source of daily publications.
//   - today: reference day; its month is the newest month of the window.
//
// Behavior:
//   - Creates the schema if absent.
//   - Resolves one publication day per month (days 1..7); unresolved months are dropped.
//   - Parses every publication; malformed lines are skipped and reported.
//   - Persists only currencies present on every resolved day, one transaction per currency.
//   - Records an ingestion_runs audit row.
//
// Returns:
//   - *Report describing the run.
//   - error: first transport or storage error (the run is aborted).
func ProcessWindow(ctx context.Context, db *sql.DB, feed Fetcher, today time.Time) (*Report, error) {
	// use indirection to allow tests to swap repository constructor
	repo := repoCtor(db)

	report := &Report{
		RunID:         uuid.New(),
		ReferenceDate: models.TruncateToDate(today),
	}
	log := logger.L().With().Str("run_id", report.RunID.String()).Logger()
	start := time.Now()

	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	log.Info().Str("reference_date", report.ReferenceDate.Format(models.DateLayout)).Int("months", models.WindowMonths).Msg("ingestion start")

	window, err := BuildWindow(ctx, NewProber(feed), report.ReferenceDate, models.WindowMonths)
	if err != nil {
		return nil, fmt.Errorf("resolve window: %w", err)
	}
	report.Window = window

	log.Info().Int("resolved", len(window.Publications)).Int("unresolved", len(window.Unresolved)).Msg("window resolved")

	var all []models.RateRecord
	for _, pub := range window.Publications {
		parsed := ParseFeed(pub.Body, pub.Day)
		for _, s := range parsed.Skipped {
			log.Debug().Str("day", pub.Day.Format(models.DateLayout)).Int("line", s.Line).Str("reason", s.Reason).Str("raw", s.Raw).Msg("feed line skipped")
		}
		all = append(all, parsed.Records...)
		report.Skipped = append(report.Skipped, parsed.Skipped...)
		log.Debug().Str("day", pub.Day.Format(models.DateLayout)).Int("records", len(parsed.Records)).Int("skipped", len(parsed.Skipped)).Msg("publication parsed")
	}

	report.Gate = CheckCompleteness(all, len(window.Publications))
	if len(report.Gate.Incomplete) > 0 {
		log.Info().Strs("codes", report.Gate.IncompleteCodes()).Msg("currencies with incomplete data")
	}

	for _, grp := range report.Gate.Complete {
		if err := repo.InsertRates(ctx, grp.Records); err != nil {
			return nil, fmt.Errorf("store %s: %w", grp.Code, err)
		}
		report.PersistedRows += len(grp.Records)
		log.Debug().Str("code", grp.Code).Int("rows", len(grp.Records)).Msg("currency stored")
	}

	run := models.IngestionRun{
		RunID:           report.RunID,
		ReferenceDate:   report.ReferenceDate,
		ResolvedDays:    len(window.Publications),
		CompleteCodes:   report.Gate.CompleteCodes(),
		IncompleteCodes: report.Gate.IncompleteCodes(),
		PersistedRows:   report.PersistedRows,
	}
	if err := repo.RecordIngestionRun(ctx, run); err != nil {
		return nil, fmt.Errorf("record ingestion run: %w", err)
	}

	log.Info().
		Int("complete", len(report.Gate.Complete)).
		Int("incomplete", len(report.Gate.Incomplete)).
		Int("rows", report.PersistedRows).
		Int("skipped_lines", len(report.Skipped)).
		Dur("elapsed", time.Since(start)).
		Msg("ingestion completed")

	return report, nil
}
