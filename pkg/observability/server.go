package observability

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes mounts /metrics, /health and /ready. A nil checker serves probes
// that always succeed.
func Routes(r chi.Router, healthChecker *HealthChecker) {
	r.Handle("/metrics", promhttp.Handler())

	if healthChecker == nil {
		healthChecker = NewHealthChecker(nil)
	}
	r.Get("/health", healthChecker.HealthHandler())
	r.Get("/ready", healthChecker.ReadyHandler())
	r.Head("/ready", healthChecker.ReadyHandler())
}
