package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHostTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewHostTokenManager("", "shop")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestHostToken_RoundTrip(t *testing.T) {
	m, err := NewHostTokenManager("s3cret", "shop")
	require.NoError(t, err)

	token, err := m.GenerateToken("shop-1", []string{ScopeOrderUpdates}, time.Minute)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "shop-1", claims.ShopID)
	assert.Equal(t, "shop", claims.Issuer)
	assert.True(t, ValidateScopes(claims.Scopes, []string{ScopeOrderUpdates}))
}

func TestHostToken_Rejected(t *testing.T) {
	m, err := NewHostTokenManager("s3cret", "shop")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewHostTokenManager("other", "shop")
		token, _ := other.GenerateToken("shop-1", nil, time.Minute)
		_, err := m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, _ := NewHostTokenManager("s3cret", "someone-else")
		token, _ := other.GenerateToken("shop-1", nil, time.Minute)
		_, err := m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past, _ := NewHostTokenManager("s3cret", "shop")
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _ := past.GenerateToken("shop-1", nil, time.Minute)
		_, err := m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, HostClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "shop",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateScopes(t *testing.T) {
	assert.True(t, ValidateScopes([]string{"a", "b"}, []string{"a"}))
	assert.True(t, ValidateScopes(nil, nil))
	assert.False(t, ValidateScopes([]string{"a"}, []string{"a", "b"}))
}

func TestHostClaimsContext(t *testing.T) {
	_, ok := HostClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithHostClaims(context.Background(), &HostClaims{ShopID: "shop-1"})
	claims, ok := HostClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "shop-1", claims.ShopID)
}
