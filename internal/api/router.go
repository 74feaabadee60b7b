package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/instasorteo/contest-stats/internal/api/handler"
	apimw "github.com/instasorteo/contest-stats/internal/api/middleware"
	"github.com/instasorteo/contest-stats/internal/ratelimiter"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	health *handler.HealthHandler,
	stats *handler.StatsHandler,
	limiter *ratelimiter.Limiter,
	obs apimw.RequestObserver,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)     // recover panics, return 500
	r.Use(chimw.RealIP)        // trust X-Forwarded-For / X-Real-IP
	r.Use(apimw.CorrelationID) // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))
	r.Use(apimw.Metrics(obs))

	// Raw Prometheus scrape endpoint, outside the rate limit.
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		// Liveness probes are never throttled.
		r.Get("/health", health.Health)

		// A nil limiter (the default) admits everything; excess load then
		// waits in the shared pool's queue.
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Get("/stats", stats.Stats)
		})
	})

	return r
}
