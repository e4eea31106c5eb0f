package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/config"
)

// New creates the secret manager selected by cfg.Backend
func New(ctx context.Context, cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch cfg.Backend {
	case "", "env":
		return NewEnvSecretManager(), nil
	case "file":
		return NewLocalSecretManager(cfg.FileBasePath, logger), nil
	case "aws":
		awsCfg := DefaultAWSSecretsManagerConfig(cfg.AWSRegion)
		awsCfg.Profile = cfg.AWSProfile
		awsCfg.Endpoint = cfg.AWSEndpoint
		return NewAWSSecretsManagerAdapter(ctx, awsCfg, logger)
	case "vault":
		vaultCfg := DefaultVaultConfig(cfg.VaultAddress)
		vaultCfg.Token = cfg.VaultToken
		vaultCfg.RoleID = cfg.VaultRoleID
		vaultCfg.SecretID = cfg.VaultSecretID
		if cfg.VaultMountPath != "" {
			vaultCfg.MountPath = cfg.VaultMountPath
		}
		return NewVaultAdapter(ctx, vaultCfg, logger)
	default:
		return nil, fmt.Errorf("unsupported secrets backend %q", cfg.Backend)
	}
}

// ResolveAPIKey returns the gateway API key for the active mode. A key set
// directly in the configuration wins; otherwise the configured secret path
// is read. No key and no path yields "", which hides every payment option.
func ResolveAPIKey(ctx context.Context, gw *config.GatewayConfig, sm ports.SecretManagerAdapter, logger *zap.Logger) (string, error) {
	if key := gw.APIKey(); key != "" {
		return key, nil
	}

	path := gw.APIKeySecret()
	if path == "" {
		logger.Warn("No gateway API key configured",
			zap.Bool("test_mode", gw.TestMode),
		)
		return "", nil
	}

	secret, err := sm.GetSecret(ctx, path)
	if err != nil {
		return "", fmt.Errorf("resolve gateway api key: %w", err)
	}

	logger.Info("Gateway API key resolved from secret manager",
		zap.String("path", path),
		zap.String("version", secret.Version),
		zap.Bool("test_mode", gw.TestMode),
	)
	return strings.TrimSpace(secret.Value), nil
}
