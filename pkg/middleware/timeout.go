package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/pkg/resilience"
)

// HandlerTimeout bounds the request context of every handler with the
// configured handler timeout. A deadline already set upstream wins.
func HandlerTimeout(cfg *resilience.TimeoutConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := cfg.HandlerContext(r.Context())
			defer cancel()

			logger.Debug("Applied handler timeout",
				zap.String("path", r.URL.Path),
				zap.Duration("timeout", cfg.HTTPHandler),
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
