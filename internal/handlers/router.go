// Package handlers wires the HTTP surface
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/handlers/checkout"
	"github.com/kevin07696/checkout-bridge/internal/handlers/hooks"
	"github.com/kevin07696/checkout-bridge/internal/handlers/notification"
	authmw "github.com/kevin07696/checkout-bridge/internal/middleware"
	"github.com/kevin07696/checkout-bridge/pkg/observability"
	pkgmw "github.com/kevin07696/checkout-bridge/pkg/middleware"
	"github.com/kevin07696/checkout-bridge/pkg/resilience"
)

// RouterConfig holds everything the router mounts. A nil HostAuth leaves
// the hook endpoints unmounted.
type RouterConfig struct {
	Checkout        *checkout.Handler
	Notification    *notification.Handler
	Hooks           *hooks.Handler
	HostAuth        *authmw.HostAuth
	RateLimiter     *pkgmw.RateLimiter
	SecurityHeaders *authmw.SecurityHeaders
	Timeouts        *resilience.TimeoutConfig
	Health          *observability.HealthChecker
	Logger          *zap.Logger
}

// NewRouter builds the chi router
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(observability.HTTPMetrics)

	observability.Routes(r, cfg.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(pkgmw.HandlerTimeout(cfg.Timeouts, cfg.Logger))
		r.Use(chimw.Compress(5, "application/json"))
		if cfg.SecurityHeaders != nil {
			r.Use(cfg.SecurityHeaders.Middleware)
		}

		// shopper and gateway facing
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Middleware)
			}
			r.Get("/payment-options", cfg.Checkout.ListOptions)
			r.Post("/payments", cfg.Checkout.Initiate)
			r.Get("/callback", cfg.Checkout.Callback)
			r.Get("/processorder", cfg.Checkout.ProcessOrder)
			r.Post("/wallet/applepay/session", cfg.Checkout.WalletSession)
			r.Get("/payment-component/token", cfg.Checkout.ComponentToken)
			r.Get("/notification", cfg.Notification.Notify)
			r.Post("/notification", cfg.Notification.Notify)
		})

		if cfg.HostAuth != nil && cfg.Hooks != nil {
			r.Route("/hooks", func(r chi.Router) {
				r.Use(cfg.HostAuth.Middleware)
				r.Post("/invoice", cfg.Hooks.Invoice)
				r.Post("/status", cfg.Hooks.Status)
				r.Post("/refund", cfg.Hooks.Refund)
			})
		}
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
