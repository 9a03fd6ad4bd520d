package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/guttosm/cnbpulse/internal/domain/dto"
	"github.com/guttosm/cnbpulse/internal/logger"
)

// NewIPLimiter builds an in-memory per-client limiter from a formatted rate
// such as "60-M" (60 requests per minute).
func NewIPLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimiter limits the number of requests per client IP.
//
// Behavior:
//   - Identifies clients by c.ClientIP().
//   - Sets X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset.
//   - If the limit is reached, returns HTTP 429 Too Many Requests.
//
// Usage:
//
//	lim, _ := middleware.NewIPLimiter("60-M")
//	router.Use(middleware.RateLimiter(lim))
func RateLimiter(lim *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		lctx, err := lim.Get(c.Request.Context(), ip)
		if err != nil {
			logger.L().Error().Err(err).Str("client_ip", ip).Msg("rate limit check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			logger.L().Warn().Str("client_ip", ip).Int64("limit", lctx.Limit).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}

		c.Next()
	}
}
