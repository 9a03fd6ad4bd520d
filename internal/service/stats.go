package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/guttosm/cnbpulse/internal/domain/models"
	"github.com/guttosm/cnbpulse/internal/storage"
)

// ErrNoData is returned when the store holds no rates for the trailing window.
var ErrNoData = errors.New("no data available")

// sharedQueryTimeout bounds a store query shared between concurrent callers.
const sharedQueryTimeout = 10 * time.Second

// StatsService defines business logic for the per-currency statistics.
type StatsService interface {
	GetExchangeRateStats(ctx context.Context) ([]models.CurrencyStats, error)
}

type statsService struct {
	repo  storage.RatesRepository
	now   func() time.Time
	group singleflight.Group
}

// Option customises a StatsService.
type Option func(*statsService)

// WithClock replaces time.Now as the source of the reference day.
func WithClock(now func() time.Time) Option {
	return func(s *statsService) { s.now = now }
}

func NewStatsService(repo storage.RatesRepository, opts ...Option) StatsService {
	s := &statsService{repo: repo, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetExchangeRateStats aggregates the rates stored for the first day of each of
// the last twelve months. Concurrent calls for the same reference day share one
// store query. The shared query is detached from any single caller's
// cancellation; each caller stops waiting when its own ctx is done.
func (s *statsService) GetExchangeRateStats(ctx context.Context) ([]models.CurrencyStats, error) {
	dates := models.FirstDaysOfMonths(s.now(), models.WindowMonths)
	key := dates[len(dates)-1].Format(models.DateLayout)

	ch := s.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedQueryTimeout)
		defer cancel()
		return s.repo.ListRatesByDates(shared, dates)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	records := res.Val.([]models.RateRecord)
	if len(records) == 0 {
		return nil, ErrNoData
	}
	return Aggregate(records).Stats, nil
}
