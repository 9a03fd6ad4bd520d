package dto

import "github.com/guttosm/cnbpulse/internal/domain/models"

// CurrencyStatsResponse is one element of the GET /api/exchange-rates array.
//
// Field names are part of the public contract; dates are YYYY-MM-DD.
type CurrencyStatsResponse struct {
	Country   string  `json:"country" example:"USA"`
	Currency  string  `json:"currency" example:"dolar"`
	Amount    int     `json:"amount" example:"1"`
	Code      string  `json:"code" example:"USD"`
	MinRate   float64 `json:"min_rate" example:"21.85"`
	MaxRate   float64 `json:"max_rate" example:"23.744"`
	AvgRate   float64 `json:"avg_rate" example:"22.613"`
	StartDate string  `json:"start_date" example:"2023-11-01"`
	EndDate   string  `json:"end_date" example:"2024-10-01"`
}

// NewCurrencyStatsResponses maps domain stats to response DTOs, preserving order.
func NewCurrencyStatsResponses(stats []models.CurrencyStats) []CurrencyStatsResponse {
	out := make([]CurrencyStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, CurrencyStatsResponse{
			Country:   s.Country,
			Currency:  s.Currency,
			Amount:    s.Amount,
			Code:      s.Code,
			MinRate:   s.MinRate,
			MaxRate:   s.MaxRate,
			AvgRate:   s.AvgRate,
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
		})
	}
	return out
}
