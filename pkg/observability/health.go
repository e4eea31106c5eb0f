package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckFunc reports one dependency's health
type CheckFunc func(ctx context.Context) error

// HealthStatus is the /health response body
type HealthStatus struct {
	Status    string            `json:"status"` // healthy, degraded or unhealthy
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

type check struct {
	name     string
	fn       CheckFunc
	critical bool
}

// HealthChecker runs the registered checks. A failing critical check makes
// the service unhealthy and not ready; any other failure only degrades it.
type HealthChecker struct {
	mu     sync.RWMutex
	checks []check
}

// NewHealthChecker creates a checker with db as its critical "database"
// check. db may be nil when the service runs on the in-memory store.
func NewHealthChecker(db Pinger) *HealthChecker {
	h := &HealthChecker{}
	if db != nil {
		h.AddCheck("database", db.Ping, true)
	}
	return h
}

// AddCheck registers a named check
func (h *HealthChecker) AddCheck(name string, fn CheckFunc, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check{name: name, fn: fn, critical: critical})
}

// Check runs every check with a short timeout each
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	h.mu.RLock()
	checks := append([]check(nil), h.checks...)
	h.mu.RUnlock()

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]string, len(checks)),
	}
	if len(checks) == 0 {
		status.Checks["database"] = "not configured"
	}

	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.fn(checkCtx)
		cancel()

		if err == nil {
			status.Checks[c.name] = "healthy"
			continue
		}
		status.Checks[c.name] = "unhealthy: " + err.Error()
		switch {
		case c.critical:
			status.Status = "unhealthy"
		case status.Status == "healthy":
			status.Status = "degraded"
		}
	}
	return status
}

// HealthHandler answers 503 only when the service is unhealthy
func (h *HealthChecker) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	}
}

// ReadyHandler is the readiness probe
func (h *HealthChecker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if h.Check(r.Context()).Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		_, _ = w.Write([]byte("ready"))
	}
}
