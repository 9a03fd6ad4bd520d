package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cnbpulse"

// Metrics holds the HTTP and query collectors of the API process.
//
// Every collector is registered on a private registry so that tests can build
// as many instances as they need.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Stats queries by outcome: ok, no_data, error
	StatsQueriesTotal *prometheus.CounterVec
	StatsCurrencies   prometheus.Gauge
}

// New creates the collectors and registers them, plus the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status"},
		),

		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
			},
			[]string{"route", "method"},
		),

		StatsQueriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stats_queries_total",
				Help:      "Exchange-rate statistics queries by outcome",
			},
			[]string{"outcome"},
		),

		StatsCurrencies: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stats_currencies",
				Help:      "Number of currencies returned by the last successful statistics query",
			},
		),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	m.RequestsTotal.WithLabelValues(route, method, status).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordStatsQuery records the outcome of a statistics query and, on success,
// the number of currencies returned.
func (m *Metrics) RecordStatsQuery(outcome string, currencies int) {
	m.StatsQueriesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.StatsCurrencies.Set(float64(currencies))
	}
}

// Outcomes accepted by RecordStatsQuery.
const (
	OutcomeOK     = "ok"
	OutcomeNoData = "no_data"
	OutcomeError  = "error"
)

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
