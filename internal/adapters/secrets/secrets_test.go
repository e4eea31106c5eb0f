package secrets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/config"
)

func TestLocalSecretManager(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "gateway"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gateway", "test-api-key"), []byte("plain-key\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gateway", "live-api-key"),
		[]byte(`{"value":"json-key","tags":{"owner":"payments"}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("  \n"), 0o600))

	sm := NewLocalSecretManager(dir, zaptest.NewLogger(t))
	ctx := context.Background()

	secret, err := sm.GetSecret(ctx, "gateway/test-api-key")
	require.NoError(t, err)
	assert.Equal(t, "plain-key", secret.Value)

	secret, err = sm.GetSecret(ctx, "gateway/live-api-key")
	require.NoError(t, err)
	assert.Equal(t, "json-key", secret.Value)
	assert.Equal(t, "payments", secret.Metadata["owner"])

	_, err = sm.GetSecret(ctx, "gateway/missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	_, err = sm.GetSecret(ctx, "empty")
	assert.Error(t, err)

	// paths cannot escape the base directory
	_, err = sm.GetSecret(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestEnvSecretManager(t *testing.T) {
	sm := &envSecretManager{lookup: func(name string) (string, bool) {
		if name == "CHECKOUT_GATEWAY_LIVE_API_KEY" {
			return "env-key", true
		}
		return "", false
	}}

	secret, err := sm.GetSecret(context.Background(), "checkout/gateway/live-api-key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", secret.Value)
	assert.Equal(t, "CHECKOUT_GATEWAY_LIVE_API_KEY", secret.Metadata["env"])

	_, err = sm.GetSecret(context.Background(), "other")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "GATEWAY_TEST_API_KEY", EnvName("/gateway/test-api-key"))
	assert.Equal(t, "SHOP_V1_KEY", EnvName("shop/v1.key"))
}

type fakeSecretsManager struct {
	calls  int32
	output *secretsmanager.GetSecretValueOutput
	err    error
}

func (f *fakeSecretsManager) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.output, f.err
}

func TestAWSAdapter_CachesSecrets(t *testing.T) {
	fake := &fakeSecretsManager{output: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String("aws-key"),
		VersionId:    aws.String("v7"),
		Name:         aws.String("checkout/gateway"),
	}}
	adapter := newAWSAdapter(fake, DefaultAWSSecretsManagerConfig("eu-west-1"), zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		secret, err := adapter.GetSecret(context.Background(), "checkout/gateway")
		require.NoError(t, err)
		assert.Equal(t, "aws-key", secret.Value)
		assert.Equal(t, "v7", secret.Version)
		assert.Equal(t, "checkout/gateway", secret.Metadata["name"])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.calls))
}

func TestAWSAdapter_Error(t *testing.T) {
	fake := &fakeSecretsManager{err: errors.New("AccessDeniedException")}
	cfg := DefaultAWSSecretsManagerConfig("eu-west-1")
	cfg.EnableCache = false
	adapter := newAWSAdapter(fake, cfg, zaptest.NewLogger(t))

	_, err := adapter.GetSecret(context.Background(), "checkout/gateway")
	assert.ErrorContains(t, err, "AccessDeniedException")
}

func TestSecretCache_Expires(t *testing.T) {
	cache := newSecretCache(true, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.set("k", &ports.Secret{Value: "v"})
	assert.NotNil(t, cache.get("k"))

	now = now.Add(2 * time.Minute)
	assert.Nil(t, cache.get("k"))

	disabled := newSecretCache(false, time.Minute)
	disabled.set("k", &ports.Secret{Value: "v"})
	assert.Nil(t, disabled.get("k"))
}

func newVaultServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/auth/approle/login":
			_, _ = w.Write([]byte(`{"auth":{"client_token":"approle-token"}}`))
		case "/v1/secret/data/checkout/gateway":
			if r.Header.Get("X-Vault-Token") != "approle-token" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{"data":{"value":"vault-key","owner":"payments"},"metadata":{"version":3}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestVaultAdapter_AppRole(t *testing.T) {
	server := newVaultServer(t)

	cfg := DefaultVaultConfig(server.URL)
	cfg.RoleID = "role"
	cfg.SecretID = "secret"
	sm, err := NewVaultAdapter(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	secret, err := sm.GetSecret(context.Background(), "checkout/gateway")
	require.NoError(t, err)
	assert.Equal(t, "vault-key", secret.Value)
	assert.Equal(t, "3", secret.Version)
	assert.Equal(t, "payments", secret.Metadata["owner"])

	_, err = sm.GetSecret(context.Background(), "checkout/missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestVaultAdapter_RequiresCredentials(t *testing.T) {
	_, err := NewVaultAdapter(context.Background(), DefaultVaultConfig("http://127.0.0.1:1"), zaptest.NewLogger(t))
	assert.Error(t, err)
}

type mockSecretManager struct {
	mock.Mock
}

func (m *mockSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Secret), args.Error(1)
}

func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	t.Run("direct key wins", func(t *testing.T) {
		sm := new(mockSecretManager)
		gw := &config.GatewayConfig{TestMode: true, TestAPIKey: "direct", TestAPIKeySecret: "gateway/test"}

		key, err := ResolveAPIKey(ctx, gw, sm, logger)
		require.NoError(t, err)
		assert.Equal(t, "direct", key)
		sm.AssertNotCalled(t, "GetSecret", mock.Anything, mock.Anything)
	})

	t.Run("secret path for active mode", func(t *testing.T) {
		sm := new(mockSecretManager)
		sm.On("GetSecret", ctx, "gateway/live").Return(&ports.Secret{Value: " live-key \n"}, nil)
		gw := &config.GatewayConfig{TestMode: false, LiveAPIKeySecret: "gateway/live", TestAPIKeySecret: "gateway/test"}

		key, err := ResolveAPIKey(ctx, gw, sm, logger)
		require.NoError(t, err)
		assert.Equal(t, "live-key", key)
		sm.AssertExpectations(t)
	})

	t.Run("nothing configured", func(t *testing.T) {
		key, err := ResolveAPIKey(ctx, &config.GatewayConfig{}, new(mockSecretManager), logger)
		require.NoError(t, err)
		assert.Empty(t, key)
	})

	t.Run("backend failure", func(t *testing.T) {
		sm := new(mockSecretManager)
		sm.On("GetSecret", ctx, "gateway/live").Return(nil, ErrSecretNotFound)
		gw := &config.GatewayConfig{LiveAPIKeySecret: "gateway/live"}

		_, err := ResolveAPIKey(ctx, gw, sm, logger)
		assert.ErrorIs(t, err, ErrSecretNotFound)
	})
}

func TestNew_Backends(t *testing.T) {
	logger := zaptest.NewLogger(t)

	sm, err := New(context.Background(), config.SecretsConfig{Backend: "env"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &envSecretManager{}, sm)

	sm, err = New(context.Background(), config.SecretsConfig{Backend: "file", FileBasePath: t.TempDir()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &localSecretManager{}, sm)

	_, err = New(context.Background(), config.SecretsConfig{Backend: "gcp"}, logger)
	assert.Error(t, err)
}
