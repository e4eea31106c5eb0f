package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/auth"
)

// TokenValidator validates host platform bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.HostClaims, error)
}

// HostAuth guards the host platform hook endpoints with a bearer token
type HostAuth struct {
	validator      TokenValidator
	requiredScopes []string
	logger         *zap.Logger
}

// NewHostAuth creates a new host authenticator
func NewHostAuth(validator TokenValidator, logger *zap.Logger, requiredScopes ...string) *HostAuth {
	return &HostAuth{
		validator:      validator,
		requiredScopes: requiredScopes,
		logger:         logger,
	}
}

// Middleware wraps an HTTP handler with host token authentication
func (a *HostAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			a.logger.Warn("Host request without bearer token",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr))
			w.Header().Set("WWW-Authenticate", `Bearer realm="hooks"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := a.validator.ValidateToken(token)
		if err != nil {
			a.logger.Warn("Host token rejected",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err))
			w.Header().Set("WWW-Authenticate", `Bearer realm="hooks", error="invalid_token"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !auth.ValidateScopes(claims.Scopes, a.requiredScopes) {
			a.logger.Warn("Host token lacks required scopes",
				zap.String("shop_id", claims.ShopID),
				zap.Strings("scopes", claims.Scopes),
				zap.Strings("required", a.requiredScopes))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithHostClaims(r.Context(), claims)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
