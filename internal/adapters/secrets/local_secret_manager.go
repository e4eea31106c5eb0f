package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
)

// ErrSecretNotFound is returned when a backend has no secret at the path
var ErrSecretNotFound = errors.New("secret not found")

// localSecretManager reads secrets from files under basePath.
// WARNING: This is for development only. Use AWS Secrets Manager or Vault in production.
type localSecretManager struct {
	basePath string
	logger   *zap.Logger
}

// NewLocalSecretManager creates a new local filesystem secret manager
func NewLocalSecretManager(basePath string, logger *zap.Logger) ports.SecretManagerAdapter {
	return &localSecretManager{
		basePath: basePath,
		logger:   logger,
	}
}

// GetSecret reads basePath/secretPath. The file is either the raw value or
// JSON {"value": ..., "tags": {...}}.
func (m *localSecretManager) GetSecret(ctx context.Context, secretPath string) (*ports.Secret, error) {
	filePath := filepath.Join(m.basePath, filepath.Clean("/"+secretPath))

	m.logger.Debug("Reading secret from filesystem",
		zap.String("path", secretPath),
	)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, secretPath)
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	var secretData struct {
		Value string            `json:"value"`
		Tags  map[string]string `json:"tags"`
	}
	if err := json.Unmarshal(data, &secretData); err == nil && secretData.Value != "" {
		return &ports.Secret{
			Value:    secretData.Value,
			Version:  "v1",
			Metadata: secretData.Tags,
		}, nil
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return nil, fmt.Errorf("empty secret value in %s", secretPath)
	}
	return &ports.Secret{Value: value, Version: "v1"}, nil
}

// envSecretManager maps secret paths onto environment variables:
// "gateway/live-api-key" reads GATEWAY_LIVE_API_KEY
type envSecretManager struct {
	lookup func(string) (string, bool)
}

// NewEnvSecretManager creates a secret manager backed by the process environment
func NewEnvSecretManager() ports.SecretManagerAdapter {
	return &envSecretManager{lookup: os.LookupEnv}
}

func (m *envSecretManager) GetSecret(ctx context.Context, secretPath string) (*ports.Secret, error) {
	name := EnvName(secretPath)
	value, ok := m.lookup(name)
	if !ok || value == "" {
		return nil, fmt.Errorf("%w: %s (%s)", ErrSecretNotFound, secretPath, name)
	}
	return &ports.Secret{Value: value, Version: "env", Metadata: map[string]string{"env": name}}, nil
}

// EnvName converts a secret path to an environment variable name
func EnvName(secretPath string) string {
	replacer := strings.NewReplacer("/", "_", "-", "_", ".", "_")
	return strings.ToUpper(replacer.Replace(strings.Trim(secretPath, "/")))
}
