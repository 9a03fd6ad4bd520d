package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cnbpulse/config"
	"github.com/guttosm/cnbpulse/internal/api"
	"github.com/guttosm/cnbpulse/internal/metrics"
	"github.com/guttosm/cnbpulse/internal/middleware"
	"github.com/guttosm/cnbpulse/internal/service"
	"github.com/guttosm/cnbpulse/internal/storage"
)

// ensureSchema is an indirection so tests can skip migrations.
var ensureSchema = func(ctx context.Context, repo storage.RatesRepository) error {
	return repo.EnsureSchema(ctx)
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres() and applies migrations.
//   - Wires repository, StatsService, metrics and the per-IP rate limiter.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp(cfg *config.Config) (*gin.Engine, func(), error) {
	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	cleanup := func() {
		_ = db.Close()
	}

	repo := storage.NewRatesRepository(db)
	if err := ensureSchema(context.Background(), repo); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	lim, err := middleware.NewIPLimiter(cfg.RateLimit.Rate)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit.Rate, err)
	}

	m := metrics.New()
	svc := service.NewStatsService(repo)
	handler := api.NewHandler(svc, m)

	router := api.NewRouter(handler, api.RouterOptions{
		Limiter:     lim,
		Metrics:     m,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	})

	api.NewHealthHandler(db.PingContext).Register(router)

	return router, cleanup, nil
}
