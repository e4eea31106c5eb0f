package auth

import "context"

type contextKey string

const hostClaimsKey contextKey = "host_claims"

// WithHostClaims stores validated host claims in ctx
func WithHostClaims(ctx context.Context, claims *HostClaims) context.Context {
	return context.WithValue(ctx, hostClaimsKey, claims)
}

// HostClaimsFromContext returns the claims stored by WithHostClaims
func HostClaimsFromContext(ctx context.Context) (*HostClaims, bool) {
	claims, ok := ctx.Value(hostClaimsKey).(*HostClaims)
	return claims, ok
}
