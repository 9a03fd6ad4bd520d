package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cnbpulse/internal/domain/dto"
	"github.com/guttosm/cnbpulse/internal/metrics"
	"github.com/guttosm/cnbpulse/internal/middleware"
	"github.com/guttosm/cnbpulse/internal/service"
)

// Handler provides HTTP handlers for the exchange-rate statistics endpoints.
//
// Responsibilities:
//   - Interact with the service layer for data access
//   - Translate service results into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc     service.StatsService
	metrics *metrics.Metrics
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.StatsService): computes the per-currency statistics.
//   - m (*metrics.Metrics): optional; query outcomes are not recorded when nil.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.StatsService, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// GetExchangeRates handles GET /api/exchange-rates requests.
//
// Responses:
//   - 200 OK: JSON array of CurrencyStatsResponse, one per currency.
//   - 404 Not Found: No rates stored for the first days of the last twelve months.
//   - 500 Internal Server Error: Failure in the service or database layer.
//
// GetExchangeRates godoc
// @Summary      Exchange-rate statistics
// @Description  Returns min, max and average CZK rate per currency over the first days of the last twelve months
// @Tags         exchange-rates
// @Produce      json
// @Success      200  {array}   dto.CurrencyStatsResponse  "Success"
// @Failure      404  {object}  dto.ErrorResponse          "Not Found"
// @Failure      500  {object}  dto.ErrorResponse          "Internal Error"
// @Router       /api/exchange-rates [get]
func (h *Handler) GetExchangeRates(c *gin.Context) {
	stats, err := h.svc.GetExchangeRateStats(c.Request.Context())
	switch {
	case errors.Is(err, service.ErrNoData):
		h.record(metrics.OutcomeNoData, 0)
		middleware.AbortWithError(c, http.StatusNotFound, "No data available", nil)
		return
	case err != nil:
		h.record(metrics.OutcomeError, 0)
		_ = c.Error(err)
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch exchange rates", err)
		return
	}

	h.record(metrics.OutcomeOK, len(stats))
	c.IndentedJSON(http.StatusOK, dto.NewCurrencyStatsResponses(stats))
}

func (h *Handler) record(outcome string, currencies int) {
	if h.metrics != nil {
		h.metrics.RecordStatsQuery(outcome, currencies)
	}
}
