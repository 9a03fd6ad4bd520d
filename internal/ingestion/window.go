package ingestion

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/guttosm/cnbpulse/internal/domain/models"
	"github.com/guttosm/cnbpulse/internal/logger"
)

// probeDays is the last day of a month tried when looking for a publication.
const probeDays = 7

// Publication is a resolved day together with the feed text fetched for it.
type Publication struct {
	Day  time.Time
	Body string
}

// Prober finds the first published day in the first week of a month.
type Prober struct {
	feed Fetcher
}

// NewProber returns a Prober backed by feed.
func NewProber(feed Fetcher) *Prober {
	return &Prober{feed: feed}
}

// Probe tries days 1..7 of ym in order, one fetch per day, and returns the first
// day the feed answered successfully.
//
// Returns:
//   - (pub, true, nil) for the first published day
//   - (zero, false, nil) when none of the days is published (month unresolved)
//   - a non-nil error for anything other than ErrNoPublication; the run should abort
func (p *Prober) Probe(ctx context.Context, ym models.YearMonth) (Publication, bool, error) {
	for day := 1; day <= probeDays; day++ {
		d, ok := ym.Day(day)
		if !ok {
			continue
		}

		body, err := p.feed.Fetch(ctx, d)
		if err != nil {
			if errors.Is(err, ErrNoPublication) {
				logger.L().Debug().Str("day", d.Format(models.DateLayout)).Msg("no publication, trying next day")
				continue
			}
			return Publication{}, false, err
		}
		return Publication{Day: d, Body: body}, true, nil
	}
	return Publication{}, false, nil
}

// Window is the resolved trailing window.
//
// Publications is strictly ascending by day with at most one entry per month.
// Unresolved lists the months for which no day in 1..7 was published.
type Window struct {
	Publications []Publication
	Unresolved   []models.YearMonth
}

// Days returns the resolved days in chronological order.
func (w Window) Days() []time.Time {
	out := make([]time.Time, len(w.Publications))
	for i, p := range w.Publications {
		out[i] = p.Day
	}
	return out
}

// BuildWindow probes each of the n months ending at today's month, walking
// backwards, and returns the resolved publications oldest first.
func BuildWindow(ctx context.Context, prober *Prober, today time.Time, n int) (Window, error) {
	var w Window

	for _, ym := range models.TrailingMonths(today, n) {
		if err := ctx.Err(); err != nil {
			return Window{}, err
		}

		pub, ok, err := prober.Probe(ctx, ym)
		if err != nil {
			return Window{}, err
		}
		if !ok {
			logger.L().Warn().Str("month", ym.String()).Msg("no publication in first week, month dropped")
			w.Unresolved = append(w.Unresolved, ym)
			continue
		}
		w.Publications = append(w.Publications, pub)
	}

	sort.Slice(w.Publications, func(i, j int) bool {
		return w.Publications[i].Day.Before(w.Publications[j].Day)
	})
	return w, nil
}
