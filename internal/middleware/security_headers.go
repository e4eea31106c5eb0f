package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeaders sets response headers for the public endpoints. Nothing
// served here is meant to be framed or rendered as a page.
type SecurityHeaders struct {
	isDevelopment bool
	csp           string
}

// NewSecurityHeaders creates a new security headers middleware
func NewSecurityHeaders(isDevelopment bool) *SecurityHeaders {
	csp := []string{
		"default-src 'none'",
		"frame-ancestors 'none'",
		"base-uri 'none'",
		"form-action 'none'",
	}
	return &SecurityHeaders{isDevelopment: isDevelopment, csp: strings.Join(csp, "; ")}
}

// Middleware wraps an HTTP handler with security headers
func (sh *SecurityHeaders) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", sh.csp)
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), usb=()")
		h.Set("X-Permitted-Cross-Domain-Policies", "none")
		// payment URLs and tokens must never be cached by intermediaries
		h.Set("Cache-Control", "no-store")

		// HSTS breaks plain http on localhost
		if !sh.isDevelopment {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
