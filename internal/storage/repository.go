package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/cnbpulse/internal/domain/models"
)

// RatesRepository defines contract for DB operations.
type RatesRepository interface {
	EnsureSchema(ctx context.Context) error
	InsertRates(ctx context.Context, records []models.RateRecord) error
	ListRatesByDates(ctx context.Context, dates []time.Time) ([]models.RateRecord, error)
	RecordIngestionRun(ctx context.Context, run models.IngestionRun) error
}

type ratesRepository struct {
	db *sql.DB
}

func NewRatesRepository(db *sql.DB) RatesRepository {
	return &ratesRepository{db: db}
}

// EnsureSchema applies pending migrations (creates tables if absent).
func (r *ratesRepository) EnsureSchema(ctx context.Context) error {
	return migrateUp(ctx, r.db)
}

// InsertRates inserts all records in a single transaction: either every row is
// committed or none is. Duplicate (code, date) pairs are not detected here.
func (r *ratesRepository) InsertRates(ctx context.Context, records []models.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"exchange_rates",
		"country",
		"currency",
		"amount",
		"code",
		"rate",
		"date",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.Country,
			rec.Currency,
			rec.Amount,
			rec.Code,
			rec.Rate,
			rec.DateString(),
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ListRatesByDates returns every stored record whose date is one of dates,
// ordered by date and then insertion order.
func (r *ratesRepository) ListRatesByDates(ctx context.Context, dates []time.Time) ([]models.RateRecord, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	days := make([]string, len(dates))
	for i, d := range dates {
		days[i] = d.Format(models.DateLayout)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT country, currency, amount, code, rate, date
		FROM exchange_rates
		WHERE date = ANY($1::date[])
		ORDER BY date, id
	`, pq.Array(days))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.RateRecord
	for rows.Next() {
		var (
			rec     models.RateRecord
			country sql.NullString
			curr    sql.NullString
			amount  sql.NullInt64
		)
		if err := rows.Scan(&country, &curr, &amount, &rec.Code, &rec.Rate, &rec.Date); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		rec.Country = country.String
		rec.Currency = curr.String
		rec.Amount = int(amount.Int64)
		rec.Date = models.TruncateToDate(rec.Date)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordIngestionRun stores the audit row of one ingestion run.
func (r *ratesRepository) RecordIngestionRun(ctx context.Context, run models.IngestionRun) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (run_id, reference_date, resolved_days, complete_codes, incomplete_codes, persisted_rows)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		run.RunID.String(),
		run.ReferenceDate.Format(models.DateLayout),
		run.ResolvedDays,
		pq.Array(nonNil(run.CompleteCodes)),
		pq.Array(nonNil(run.IncompleteCodes)),
		run.PersistedRows,
	)
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
