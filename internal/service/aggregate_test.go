package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/cnbpulse/internal/domain/models"
)

func usdYear() []models.RateRecord {
	rates := []float64{21.0, 22.5, 20.0, 21.25, 21.5, 22.0, 20.5, 21.0, 21.75, 22.25, 20.75, 21.75}
	out := make([]models.RateRecord, len(rates))
	for i, r := range rates {
		out[i] = models.RateRecord{
			Country: "USA", Currency: "dolar", Amount: 1, Code: "USD", Rate: r,
			Date: time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func TestAggregate_USDYear(t *testing.T) {
	res := Aggregate(usdYear())

	require.Len(t, res.Stats, 1)
	st := res.Stats[0]
	assert.Equal(t, "USD", st.Code)
	assert.Equal(t, "USA", st.Country)
	assert.Equal(t, "dolar", st.Currency)
	assert.Equal(t, 1, st.Amount)
	assert.Equal(t, 20.0, st.MinRate)
	assert.Equal(t, 22.5, st.MaxRate)
	assert.Equal(t, 21.354, st.AvgRate)
	assert.Equal(t, "2024-01-01", st.StartDate)
	assert.Equal(t, "2024-12-01", st.EndDate)
	assert.Empty(t, res.Divergent)
}

func TestAggregate_Properties(t *testing.T) {
	d := func(m time.Month) time.Time { return time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC) }
	records := []models.RateRecord{
		{Code: "EUR", Rate: 24.5, Date: d(3)},
		{Code: "USD", Rate: 22.815, Date: d(3)},
		{Code: "JPY", Amount: 100, Rate: 15.1, Date: d(2)},
		{Code: "EUR", Rate: 25.1, Date: d(1)},
		{Code: "USD", Rate: 23.004, Date: d(5)},
		{Code: "EUR", Rate: 24.333, Date: d(7)},
	}

	res := Aggregate(records)

	require.Len(t, res.Stats, 3)
	assert.Equal(t, []string{"EUR", "USD", "JPY"}, []string{res.Stats[0].Code, res.Stats[1].Code, res.Stats[2].Code})
	for _, st := range res.Stats {
		assert.LessOrEqual(t, st.MinRate, st.AvgRate, st.Code)
		assert.LessOrEqual(t, st.AvgRate, st.MaxRate, st.Code)
		assert.LessOrEqual(t, st.StartDate, st.EndDate, st.Code)
	}
	eur := res.Stats[0]
	assert.Equal(t, "2024-01-01", eur.StartDate)
	assert.Equal(t, "2024-07-01", eur.EndDate)
	assert.Equal(t, 24.644, eur.AvgRate)
}

func TestAggregate_AvgRounding(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		rates []float64
		want  float64
	}{
		{name: "single", rates: []float64{22.815}, want: 22.815},
		{name: "thirds", rates: []float64{1, 1, 2}, want: 1.333},
		{name: "half up", rates: []float64{1.0005, 1.0005}, want: 1.001},
		{name: "float noise", rates: []float64{0.1, 0.2}, want: 0.15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var records []models.RateRecord
			for _, r := range tc.rates {
				records = append(records, models.RateRecord{Code: "XXX", Rate: r, Date: d})
			}
			res := Aggregate(records)
			require.Len(t, res.Stats, 1)
			assert.Equal(t, tc.want, res.Stats[0].AvgRate)
		})
	}
}

func TestAggregate_FirstSeenMetadataWins(t *testing.T) {
	records := []models.RateRecord{
		{Country: "Maďarsko", Currency: "forint", Amount: 100, Code: "HUF", Rate: 6.3, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Country: "Maďarsko", Currency: "forint", Amount: 1000, Code: "HUF", Rate: 63.1, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	res := Aggregate(records)

	require.Len(t, res.Stats, 1)
	assert.Equal(t, 100, res.Stats[0].Amount)
	require.Len(t, res.Divergent, 1)
	assert.Equal(t, Divergence{Code: "HUF", Date: "2024-02-01", Field: "amount", First: "100", Got: "1000"}, res.Divergent[0])
}

func TestAggregate_Empty(t *testing.T) {
	res := Aggregate(nil)
	assert.Empty(t, res.Stats)
	assert.NotNil(t, res.Stats)
	assert.Empty(t, res.Divergent)
}
