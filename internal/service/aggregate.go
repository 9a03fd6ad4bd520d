package service

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/guttosm/cnbpulse/internal/domain/models"
	"github.com/guttosm/cnbpulse/internal/logger"
)

// avgPrecision is the number of decimal places kept in AvgRate.
const avgPrecision = 3

// Divergence reports a record whose descriptive fields differ from the first
// record seen for its code. The first record's values are the ones reported.
type Divergence struct {
	Code  string
	Date  string
	Field string
	First string
	Got   string
}

// AggregateResult is the output of Aggregate.
type AggregateResult struct {
	Stats     []models.CurrencyStats
	Divergent []Divergence
}

// Aggregate reduces records into one CurrencyStats per distinct code, in
// first-seen code order.
//
// Country, Currency and Amount come from the first record of each code; later
// records that disagree are reported in Divergent and logged, never applied.
// An empty input yields an empty result.
func Aggregate(records []models.RateRecord) AggregateResult {
	groups := models.GroupByCode(records)
	res := AggregateResult{Stats: make([]models.CurrencyStats, 0, groups.Len())}

	for _, grp := range groups.Groups() {
		first := grp.First()
		st := models.CurrencyStats{
			Country:   first.Country,
			Currency:  first.Currency,
			Amount:    first.Amount,
			Code:      grp.Code,
			MinRate:   first.Rate,
			MaxRate:   first.Rate,
			StartDate: first.DateString(),
			EndDate:   first.DateString(),
		}

		sum := decimal.Zero
		for _, r := range grp.Records {
			if r.Rate < st.MinRate {
				st.MinRate = r.Rate
			}
			if r.Rate > st.MaxRate {
				st.MaxRate = r.Rate
			}
			day := r.DateString()
			if day < st.StartDate {
				st.StartDate = day
			}
			if day > st.EndDate {
				st.EndDate = day
			}
			sum = sum.Add(decimal.NewFromFloat(r.Rate))
			res.Divergent = append(res.Divergent, diverges(first, r)...)
		}
		st.AvgRate = sum.
			Div(decimal.NewFromInt(int64(len(grp.Records)))).
			Round(avgPrecision).
			InexactFloat64()

		res.Stats = append(res.Stats, st)
	}

	for _, d := range res.Divergent {
		logger.L().Warn().
			Str("code", d.Code).
			Str("date", d.Date).
			Str("field", d.Field).
			Str("first", d.First).
			Str("got", d.Got).
			Msg("currency metadata diverges from first record")
	}
	return res
}

func diverges(first, r models.RateRecord) []Divergence {
	var out []Divergence
	add := func(field, a, b string) {
		if a != b {
			out = append(out, Divergence{Code: r.Code, Date: r.DateString(), Field: field, First: a, Got: b})
		}
	}
	add("country", first.Country, r.Country)
	add("currency", first.Currency, r.Currency)
	add("amount", strconv.Itoa(first.Amount), strconv.Itoa(r.Amount))
	return out
}
