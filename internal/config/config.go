package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// Config holds all application configuration.
// It is enumerated once at start-up and passed to components at construction.
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Gateway     GatewayConfig
	Checkout    CheckoutConfig
	Status      StatusConfig
	Secrets     SecretsConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Logger      LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int
	Host          string
	PublicBaseURL string // externally reachable base URL used in notification/redirect URLs
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Driver   string // postgres or memory
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// GatewayConfig holds payment gateway API configuration
type GatewayConfig struct {
	LiveAPIKey       string
	TestAPIKey       string
	LiveAPIKeySecret string // secret manager path, used when LiveAPIKey is empty
	TestAPIKeySecret string
	TestMode         bool
	LiveBaseURL      string
	TestBaseURL      string
	Timeout          time.Duration
	Debug            bool // logs request and response payloads
}

// CheckoutConfig holds the order request assembly settings
type CheckoutConfig struct {
	ModuleName               string // payment module name stored on local orders
	ShopName                 string
	ShopVersion              string
	PluginVersion            string
	Partner                  string
	CreateOrderBeforePayment bool
	SecondChance             bool
	TimeActive               int
	TimeActiveUnit           string // days, hours or minutes
	DescriptionTemplate      string // %s is replaced by the order id
	TaxRoundingGateways      []string
	EnabledOptions           []string // empty enables every known option
	OptionsFile              string   // YAML catalogue replacing the built-in one
	TokenizationEnabled      bool
	PaymentComponentsEnabled bool
	ConfirmationURL          string // %s is replaced by the order reference or cart id
	CancelURL                string
}

// StatusConfig holds the gateway status to local order status mapping
type StatusConfig struct {
	Mapping              map[domain.TransactionStatus]string
	ErrorStatus          string
	ShippedTriggerStatus string // local status that pushes shipment details to the gateway
	MappingFile          string
}

// SecretsConfig selects where gateway API keys are read from
type SecretsConfig struct {
	Backend        string // env, file, aws or vault
	FileBasePath   string
	AWSRegion      string
	AWSProfile     string
	AWSEndpoint    string
	VaultAddress   string
	VaultToken     string
	VaultRoleID    string // AppRole login when VaultToken is empty
	VaultSecretID  string
	VaultMountPath string
}

// AuthConfig holds host platform to service authentication settings
type AuthConfig struct {
	HostJWTSecret string
	HostJWTIssuer string
}

// RateLimitConfig limits public (shopper and gateway facing) endpoints per IP
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads and validates configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the environment and the status mapping file without checking
// the settings only the server needs
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:          getEnvAsInt("SERVER_PORT", 8080),
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			ReadTimeout:   getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("STORAGE_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "checkout_bridge"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Gateway: GatewayConfig{
			LiveAPIKey:       getEnv("GATEWAY_LIVE_API_KEY", ""),
			TestAPIKey:       getEnv("GATEWAY_TEST_API_KEY", ""),
			LiveAPIKeySecret: getEnv("GATEWAY_LIVE_API_KEY_SECRET", ""),
			TestAPIKeySecret: getEnv("GATEWAY_TEST_API_KEY_SECRET", ""),
			TestMode:         getEnvAsBool("GATEWAY_TEST_MODE", true),
			LiveBaseURL:      getEnv("GATEWAY_LIVE_URL", "https://api.multisafepay.com/v1/json"),
			TestBaseURL:      getEnv("GATEWAY_TEST_URL", "https://testapi.multisafepay.com/v1/json"),
			Timeout:          getEnvAsDuration("GATEWAY_TIMEOUT", 30*time.Second),
			Debug:            getEnvAsBool("DEBUG_MODE", false),
		},
		Checkout: CheckoutConfig{
			ModuleName:               getEnv("PAYMENT_MODULE_NAME", "multisafepay"),
			ShopName:                 getEnv("SHOP_NAME", "Shop"),
			ShopVersion:              getEnv("SHOP_VERSION", "unknown"),
			PluginVersion:            getEnv("PLUGIN_VERSION", "1.0.0"),
			Partner:                  getEnv("PLUGIN_PARTNER", ""),
			CreateOrderBeforePayment: getEnvAsBool("CREATE_ORDER_BEFORE_PAYMENT", false),
			SecondChance:             getEnvAsBool("SECOND_CHANCE", true),
			TimeActive:               getEnvAsInt("TIME_ACTIVE", 30),
			TimeActiveUnit:           getEnv("TIME_ACTIVE_UNIT", "days"),
			DescriptionTemplate:      getEnv("ORDER_DESCRIPTION", "Payment for order: %s"),
			TaxRoundingGateways:      getEnvAsList("TAX_ROUNDING_GATEWAYS", []string{"AFTERPAY"}),
			EnabledOptions:           getEnvAsList("ENABLED_PAYMENT_OPTIONS", nil),
			OptionsFile:              getEnv("PAYMENT_OPTIONS_FILE", ""),
			TokenizationEnabled:      getEnvAsBool("TOKENIZATION_ENABLED", false),
			PaymentComponentsEnabled: getEnvAsBool("PAYMENT_COMPONENTS_ENABLED", false),
			ConfirmationURL:          getEnv("CONFIRMATION_URL", "http://localhost/order-confirmation?id=%s"),
			CancelURL:                getEnv("CANCEL_URL", "http://localhost/checkout"),
		},
		Status: StatusConfig{
			Mapping:              DefaultStatusMapping(),
			ErrorStatus:          getEnv("STATUS_ERROR", "payment_error"),
			ShippedTriggerStatus: getEnv("STATUS_SHIPPED_TRIGGER", "shipped"),
			MappingFile:          getEnv("STATUS_MAPPING_FILE", ""),
		},
		Secrets: SecretsConfig{
			Backend:        getEnv("SECRETS_BACKEND", "env"),
			FileBasePath:   getEnv("SECRETS_FILE_PATH", "./secrets"),
			AWSRegion:      getEnv("AWS_REGION", "eu-west-1"),
			AWSProfile:     getEnv("AWS_PROFILE", ""),
			AWSEndpoint:    getEnv("AWS_SECRETS_ENDPOINT", ""),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultRoleID:    getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:  getEnv("VAULT_SECRET_ID", ""),
			VaultMountPath: getEnv("VAULT_MOUNT_PATH", "secret"),
		},
		Auth: AuthConfig{
			HostJWTSecret: getEnv("HOST_JWT_SECRET", ""),
			HostJWTIssuer: getEnv("HOST_JWT_ISSUER", ""),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Status.MappingFile != "" {
		overrides, err := LoadStatusMapping(cfg.Status.MappingFile)
		if err != nil {
			return nil, fmt.Errorf("load status mapping: %w", err)
		}
		cfg.Status = cfg.Status.Merge(overrides)
	}

	return cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		return fmt.Errorf("STORAGE_DRIVER must be postgres or memory, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Auth.HostJWTSecret == "" {
		return fmt.Errorf("HOST_JWT_SECRET is required")
	}
	switch c.Checkout.TimeActiveUnit {
	case "days", "hours", "minutes":
	default:
		return fmt.Errorf("TIME_ACTIVE_UNIT must be days, hours or minutes, got %q", c.Checkout.TimeActiveUnit)
	}
	if c.Status.ErrorStatus == "" {
		return fmt.Errorf("STATUS_ERROR is required")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// APIKey returns the key for the active mode
func (g *GatewayConfig) APIKey() string {
	if g.TestMode {
		return g.TestAPIKey
	}
	return g.LiveAPIKey
}

// APIKeySecret returns the secret path for the active mode
func (g *GatewayConfig) APIKeySecret() string {
	if g.TestMode {
		return g.TestAPIKeySecret
	}
	return g.LiveAPIKeySecret
}

// BaseURL returns the API base URL for the active mode
func (g *GatewayConfig) BaseURL() string {
	if g.TestMode {
		return strings.TrimRight(g.TestBaseURL, "/")
	}
	return strings.TrimRight(g.LiveBaseURL, "/")
}

// TimeActiveSeconds converts the configured payment link lifetime to seconds
func (c *CheckoutConfig) TimeActiveSeconds() int {
	switch c.TimeActiveUnit {
	case "hours":
		return c.TimeActive * 3600
	case "minutes":
		return c.TimeActive * 60
	default:
		return c.TimeActive * 86400
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
