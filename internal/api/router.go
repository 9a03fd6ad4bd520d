package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/guttosm/cnbpulse/internal/metrics"
	"github.com/guttosm/cnbpulse/internal/middleware"
)

const requestTimeout = 10 * time.Second

// RouterOptions carries the cross-cutting collaborators of the router.
type RouterOptions struct {
	Limiter     *limiter.Limiter // nil disables rate limiting
	Metrics     *metrics.Metrics // nil disables /metrics and request metrics
	CORSOrigins []string
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS, RateLimiter, Metrics).
//   - Adds request timeout handling (10 seconds).
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Configures the API routes (/api).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.CORS(opts.CORSOrigins),
	)
	if opts.Limiter != nil {
		router.Use(middleware.RateLimiter(opts.Limiter))
	}
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	// ─── Timeout ──────────────────────────────────
	router.Use(middleware.Timeout(requestTimeout))

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API ──────────────────────────────────────
	v := router.Group("/api")
	{
		v.GET("/exchange-rates", handler.GetExchangeRates)
	}

	return router
}
