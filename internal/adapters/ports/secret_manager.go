package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value    string            // The secret value (e.g., gateway API key)
	Version  string            // Secret version identifier
	Metadata map[string]string // Additional secret metadata
}

// SecretManagerAdapter retrieves secrets from a secret management service.
// Backends: local files, AWS Secrets Manager, HashiCorp Vault.
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name
	// Path format depends on implementation:
	//   - File: "gateway/live-api-key" relative to the base path
	//   - AWS: "checkout-bridge/gateway/live-api-key"
	//   - Vault: "checkout-bridge/gateway" (the "value" key is read)
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
