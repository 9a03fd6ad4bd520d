package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/cnbpulse/internal/domain/models"
	"github.com/guttosm/cnbpulse/internal/storage"
)

// fakeRepoIngestion implements storage.RatesRepository for ProcessWindow tests.
type fakeRepoIngestion struct {
	schemaErr error
	insertErr error
	runErr    error

	schemaCalls int
	inserted    [][]models.RateRecord
	runs        []models.IngestionRun
}

func (f *fakeRepoIngestion) EnsureSchema(context.Context) error {
	f.schemaCalls++
	return f.schemaErr
}
func (f *fakeRepoIngestion) InsertRates(_ context.Context, records []models.RateRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, append([]models.RateRecord(nil), records...))
	return nil
}
func (f *fakeRepoIngestion) ListRatesByDates(context.Context, []time.Time) ([]models.RateRecord, error) {
	return nil, nil
}
func (f *fakeRepoIngestion) RecordIngestionRun(_ context.Context, run models.IngestionRun) error {
	f.runs = append(f.runs, run)
	return f.runErr
}

func useFakeRepo(t *testing.T, fr *fakeRepoIngestion) {
	t.Helper()
	old := repoCtor
	repoCtor = func(_ *sql.DB) storage.RatesRepository { return fr }
	t.Cleanup(func() { repoCtor = old })
}

// twelveMonthFeed publishes on the 2nd of every month of the window; HRK is
// missing from the oldest publication.
func twelveMonthFeed(today time.Time) *fakeFeed {
	published := map[string]string{}
	months := models.TrailingMonths(today, models.WindowMonths)
	for i, ym := range months {
		d, _ := ym.Day(2)
		body := feedHeader +
			"USA|dolar|1|USD|22,815\n" +
			"EMU|euro|1|EUR|24,5\n" +
			"broken line\n"
		if i != len(months)-1 {
			body += "Chorvatsko|kuna|1|HRK|3,3\n"
		}
		published[d.Format(models.DateLayout)] = body
	}
	return &fakeFeed{published: published}
}

func TestProcessWindow_PersistsOnlyCompleteCurrencies(t *testing.T) {
	fr := &fakeRepoIngestion{}
	useFakeRepo(t, fr)

	today := time.Date(2024, 12, 10, 9, 0, 0, 0, time.UTC)
	rep, err := ProcessWindow(context.Background(), (*sql.DB)(nil), twelveMonthFeed(today), today)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}

	if fr.schemaCalls != 1 {
		t.Fatalf("expected schema ensured once, got %d", fr.schemaCalls)
	}
	if len(rep.Window.Publications) != 12 {
		t.Fatalf("want 12 resolved days got %d", len(rep.Window.Publications))
	}
	if len(fr.inserted) != 2 {
		t.Fatalf("want 2 currency inserts got %d", len(fr.inserted))
	}
	for _, batch := range fr.inserted {
		if len(batch) != 12 {
			t.Fatalf("currency %s stored with %d rows", batch[0].Code, len(batch))
		}
		if batch[0].Code == "HRK" {
			t.Fatalf("incomplete currency persisted")
		}
	}
	if got := rep.Gate.IncompleteCodes(); len(got) != 1 || got[0] != "HRK" {
		t.Fatalf("want HRK reported incomplete, got %v", got)
	}
	if rep.PersistedRows != 24 {
		t.Fatalf("want 24 persisted rows got %d", rep.PersistedRows)
	}
	if len(rep.Skipped) != 12 {
		t.Fatalf("want one skipped line per day, got %d", len(rep.Skipped))
	}

	if len(fr.runs) != 1 {
		t.Fatalf("want one ingestion run recorded got %d", len(fr.runs))
	}
	run := fr.runs[0]
	if run.RunID != rep.RunID || run.ResolvedDays != 12 || run.PersistedRows != 24 {
		t.Fatalf("unexpected run row: %+v", run)
	}
	if run.ReferenceDate.Format(models.DateLayout) != "2024-12-10" {
		t.Fatalf("unexpected reference date %v", run.ReferenceDate)
	}
}

func TestProcessWindow_UnresolvedMonthLowersThreshold(t *testing.T) {
	fr := &fakeRepoIngestion{}
	useFakeRepo(t, fr)

	today := time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)
	feed := twelveMonthFeed(today)
	// drop the oldest month entirely: HRK is then present on every remaining day
	oldest := models.TrailingMonths(today, models.WindowMonths)[models.WindowMonths-1]
	d, _ := oldest.Day(2)
	delete(feed.published, d.Format(models.DateLayout))

	rep, err := ProcessWindow(context.Background(), (*sql.DB)(nil), feed, today)
	if err != nil {
		t.Fatalf("ProcessWindow: %v", err)
	}
	if len(rep.Window.Unresolved) != 1 {
		t.Fatalf("want 1 unresolved month got %v", rep.Window.Unresolved)
	}
	if len(rep.Gate.Incomplete) != 0 {
		t.Fatalf("want no incomplete currencies got %v", rep.Gate.IncompleteCodes())
	}
	if len(fr.inserted) != 3 {
		t.Fatalf("want 3 currency inserts got %d", len(fr.inserted))
	}
}

func TestProcessWindow_Errors(t *testing.T) {
	boom := errors.New("boom")
	today := time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		repo *fakeRepoIngestion
		feed *fakeFeed
	}{
		{name: "schema", repo: &fakeRepoIngestion{schemaErr: boom}, feed: twelveMonthFeed(today)},
		{name: "insert", repo: &fakeRepoIngestion{insertErr: boom}, feed: twelveMonthFeed(today)},
		{name: "run log", repo: &fakeRepoIngestion{runErr: boom}, feed: twelveMonthFeed(today)},
		{name: "transport", repo: &fakeRepoIngestion{}, feed: &fakeFeed{failOn: map[string]error{"2024-12-01": boom}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			useFakeRepo(t, tc.repo)
			if _, err := ProcessWindow(context.Background(), (*sql.DB)(nil), tc.feed, today); !errors.Is(err, boom) {
				t.Fatalf("want wrapped boom, got %v", err)
			}
		})
	}
}
