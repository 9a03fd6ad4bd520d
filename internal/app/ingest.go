package app

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/cnbpulse/config"
	"github.com/guttosm/cnbpulse/internal/ingestion"
)

// processWindow is an indirection so tests can stub the pipeline.
var processWindow = ingestion.ProcessWindow

// FeedOptions maps the feed section of cfg onto the feed client options.
func FeedOptions(cfg *config.Config) ingestion.FeedOptions {
	return ingestion.FeedOptions{
		URL:       cfg.Feed.URL,
		DateParam: cfg.Feed.DateParam,
		Timeout:   cfg.Feed.Timeout,
		UserAgent: cfg.Feed.UserAgent,
	}
}

// RunIngestion connects to PostgreSQL and runs one ingestion for the trailing
// window ending at today.
func RunIngestion(ctx context.Context, cfg *config.Config, today time.Time) (*ingestion.Report, error) {
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	feed := ingestion.NewFeedClient(FeedOptions(cfg))
	return processWindow(ctx, db, feed, today)
}
