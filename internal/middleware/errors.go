package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cnbpulse/internal/domain/dto"
	"github.com/guttosm/cnbpulse/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a JSON 500 response
// when the handler did not write a response itself.
//
// Usage:
//
//	router.Use(middleware.ErrorHandler)
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}
	err := c.Errors.Last().Err
	logger.L().Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")

	if c.Writer.Written() {
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
}

// AbortWithError writes a dto.ErrorResponse with the given status and stops
// the handler chain.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
