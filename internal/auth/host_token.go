package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeOrderUpdates allows the host platform to push invoice, shipment and
// refund events
const ScopeOrderUpdates = "orders:update"

var (
	ErrMissingSecret = errors.New("host jwt secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// HostClaims are the claims the host platform puts in its tokens
type HostClaims struct {
	jwt.RegisteredClaims
	ShopID string   `json:"shop_id,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// HostTokenManager signs and validates host platform tokens with a shared
// HMAC secret
type HostTokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewHostTokenManager creates a token manager. An empty issuer accepts any
// issuer.
func NewHostTokenManager(secret, issuer string) (*HostTokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &HostTokenManager{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// GenerateToken signs a token for shopID. Used by operator tooling and tests;
// in production the host platform signs its own tokens.
func (m *HostTokenManager) GenerateToken(shopID string, scopes []string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := HostClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   shopID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		ShopID: shopID,
		Scopes: scopes,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken parses and verifies a token
func (m *HostTokenManager) ValidateToken(tokenString string) (*HostClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &HostClaims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*HostClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateScopes checks if the provided scopes match the required scopes
func ValidateScopes(providedScopes, requiredScopes []string) bool {
	scopeMap := make(map[string]bool, len(providedScopes))
	for _, scope := range providedScopes {
		scopeMap[scope] = true
	}

	for _, required := range requiredScopes {
		if !scopeMap[required] {
			return false
		}
	}
	return true
}
