package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/kevin07696/checkout-bridge/pkg/resilience"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, zaptest.NewLogger(t))
	defer rl.Shutdown()
	handler := rl.Middleware(noContent())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payment-options", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_PerClientIP(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, zaptest.NewLogger(t))
	defer rl.Shutdown()
	handler := rl.Middleware(noContent())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("203.0.113.7:1000"))
	// new port, same client
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7:1001"))
	assert.Equal(t, http.StatusNoContent, send("198.51.100.2:1000"))
}

func TestRateLimiter_CleanupEvictsIdle(t *testing.T) {
	rl := NewRateLimiter(10, 10, zaptest.NewLogger(t))
	defer rl.Shutdown()

	start := time.Now()
	rl.now = func() time.Time { return start }
	rl.getLimiter("203.0.113.7")

	rl.now = func() time.Time { return start.Add(10 * time.Minute) }
	rl.getLimiter("198.51.100.2")
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.limiters, "203.0.113.7")
	assert.Contains(t, rl.limiters, "198.51.100.2")
}

func TestRateLimiter_EvictsOldestWhenFull(t *testing.T) {
	rl := NewRateLimiter(10, 10, zaptest.NewLogger(t))
	defer rl.Shutdown()
	rl.maxSize = 2

	base := time.Now()
	for i, ip := range []string{"a", "b", "c"} {
		rl.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		rl.getLimiter(ip)
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.limiters, 2)
	assert.NotContains(t, rl.limiters, "a")
}

func TestRateLimiter_ShutdownIsIdempotent(t *testing.T) {
	rl := newRateLimiter(1, 1, 10*time.Millisecond, zaptest.NewLogger(t))
	rl.Shutdown()
	rl.Shutdown()
}

func TestHandlerTimeout(t *testing.T) {
	cfg := resilience.TestTimeoutConfig()
	logger := zaptest.NewLogger(t)

	t.Run("adds deadline", func(t *testing.T) {
		var deadline time.Time
		handler := HandlerTimeout(cfg, logger)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			var ok bool
			deadline, ok = r.Context().Deadline()
			require.True(t, ok)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.WithinDuration(t, time.Now().Add(cfg.HTTPHandler), deadline, time.Second)
	})

	t.Run("keeps upstream deadline", func(t *testing.T) {
		upstream := time.Now().Add(time.Hour)
		var got time.Time
		handler := HandlerTimeout(cfg, logger)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got, _ = r.Context().Deadline()
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx, cancel := context.WithDeadline(req.Context(), upstream)
		defer cancel()
		handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))
		assert.True(t, got.Equal(upstream))
	})
}

