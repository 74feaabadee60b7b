package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	HealthChecks  *prometheus.CounterVec
	StatsLookups  *prometheus.CounterVec
	StatsDuration prometheus.Histogram

	reg prometheus.Registerer
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		HealthChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "health_checks_total",
			Help: "Database liveness checks by result (ok, failed).",
		}, []string{"result"}),

		StatsLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stats_lookups_total",
			Help: "Contest statistics lookups by outcome (found, not_found, error).",
		}, []string{"outcome"}),

		StatsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stats_lookup_duration_seconds",
			Help:    "Time spent running the statistics queries for one request.",
			Buckets: prometheus.DefBuckets,
		}),

		reg: reg,
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.HealthChecks,
		m.StatsLookups,
		m.StatsDuration,
	)

	return m
}

// StatsHook returns the callback expected by service.StatsService.
// Keeps the service free of Prometheus imports.
func (m *Metrics) StatsHook() func(outcome string, elapsed time.Duration) {
	return func(outcome string, elapsed time.Duration) {
		m.StatsLookups.WithLabelValues(outcome).Inc()
		m.StatsDuration.Observe(elapsed.Seconds())
	}
}

// HealthHook returns the callback expected by the health handler.
func (m *Metrics) HealthHook() func(ok bool) {
	return func(ok bool) {
		result := "ok"
		if !ok {
			result = "failed"
		}
		m.HealthChecks.WithLabelValues(result).Inc()
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RegisterDBStats exposes sql.DBStats for the shared pool (open, in-use and
// idle connections, wait count and wait duration).
func (m *Metrics) RegisterDBStats(db *sql.DB, dbName string) {
	m.reg.MustRegister(collectors.NewDBStatsCollector(db, dbName))
}
