package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/adapters/gateway"
	"github.com/kevin07696/checkout-bridge/internal/adapters/memory"
	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/adapters/postgres"
	"github.com/kevin07696/checkout-bridge/internal/adapters/secrets"
	"github.com/kevin07696/checkout-bridge/internal/auth"
	"github.com/kevin07696/checkout-bridge/internal/config"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/handlers"
	checkoutHandler "github.com/kevin07696/checkout-bridge/internal/handlers/checkout"
	hooksHandler "github.com/kevin07696/checkout-bridge/internal/handlers/hooks"
	notificationHandler "github.com/kevin07696/checkout-bridge/internal/handlers/notification"
	authmw "github.com/kevin07696/checkout-bridge/internal/middleware"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest"
	checkoutService "github.com/kevin07696/checkout-bridge/internal/services/checkout"
	notificationService "github.com/kevin07696/checkout-bridge/internal/services/notification"
	"github.com/kevin07696/checkout-bridge/internal/services/orderupdate"
	"github.com/kevin07696/checkout-bridge/internal/services/paymentoption"
	pkghttp "github.com/kevin07696/checkout-bridge/pkg/http"
	"github.com/kevin07696/checkout-bridge/pkg/logging"
	pkgmw "github.com/kevin07696/checkout-bridge/pkg/middleware"
	"github.com/kevin07696/checkout-bridge/pkg/observability"
	"github.com/kevin07696/checkout-bridge/pkg/resilience"
	"github.com/kevin07696/checkout-bridge/pkg/shutdown"
)

const poolMonitorInterval = 30 * time.Second

type dependencies struct {
	router http.Handler
}

func initDependencies(ctx context.Context, cfg *config.Config, stopper *shutdown.Manager, logger *zap.Logger) (*dependencies, error) {
	orders, health, err := initStorage(ctx, cfg, stopper, logger)
	if err != nil {
		return nil, err
	}

	secretManager, err := secrets.New(ctx, cfg.Secrets, logger)
	if err != nil {
		return nil, fmt.Errorf("init secret manager: %w", err)
	}
	apiKey, err := secrets.ResolveAPIKey(ctx, &cfg.Gateway, secretManager, logger)
	if err != nil {
		return nil, fmt.Errorf("resolve gateway api key: %w", err)
	}
	if apiKey == "" {
		logger.Warn("No gateway API key configured; every payment option is disabled")
	}

	gatewayClient, breaker := initGateway(cfg, apiKey, logger)
	health.AddCheck("gateway_circuit", func(context.Context) error {
		if breaker.State() == gateway.StateOpen {
			return gateway.ErrCircuitOpen
		}
		return nil
	}, false)

	catalogue, err := loadCatalogue(cfg.Checkout.OptionsFile)
	if err != nil {
		return nil, err
	}
	registry := paymentoption.NewRegistry(catalogue, cfg.Checkout.EnabledOptions, apiKey != "", logger)
	builder := orderrequest.NewBuilder(cfg.Checkout, cfg.Server.PublicBaseURL, logger)
	timeouts := resilience.DefaultTimeoutConfig()

	checkoutSvc := checkoutService.NewService(registry, builder, gatewayClient, orders, cfg.Checkout, cfg.Status, logger)
	notificationSvc := notificationService.NewService(
		gatewayClient,
		orders,
		notificationService.NewStatusMapper(cfg.Status),
		cfg.Checkout.ModuleName,
		logger,
	)
	updateSvc := orderupdate.NewService(gatewayClient, orders, cfg.Checkout, cfg.Status, timeouts, logger)

	tokens, err := auth.NewHostTokenManager(cfg.Auth.HostJWTSecret, cfg.Auth.HostJWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("init host token manager: %w", err)
	}

	limiter := pkgmw.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger)
	stopper.Register("rate_limiter", func(context.Context) error {
		limiter.Shutdown()
		return nil
	})

	router := handlers.NewRouter(handlers.RouterConfig{
		Checkout:        checkoutHandler.NewHandler(checkoutSvc, registry, logger),
		Notification:    notificationHandler.NewHandler(notificationSvc, timeouts, logger),
		Hooks:           hooksHandler.NewHandler(updateSvc, logger),
		HostAuth:        authmw.NewHostAuth(tokens, logger, auth.ScopeOrderUpdates),
		RateLimiter:     limiter,
		SecurityHeaders: authmw.NewSecurityHeaders(!cfg.IsProduction()),
		Timeouts:        timeouts,
		Health:          health,
		Logger:          logger,
	})

	return &dependencies{router: router}, nil
}

// initStorage opens the order store. The postgres pool is migrated on start
// and closed last on shutdown.
func initStorage(ctx context.Context, cfg *config.Config, stopper *shutdown.Manager, logger *zap.Logger) (ports.OrderRepository, *observability.HealthChecker, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory order storage; orders are lost on restart")
		return memory.NewOrderRepository(), observability.NewHealthChecker(nil), nil
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.ConnectionString())
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}
	stopper.RegisterCloser("database", pool)

	if err := postgres.Migrate(ctx, pool, logger); err != nil {
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	monitor := shutdown.NewBackgroundWorker("pool_monitor", logger)
	monitor.Start(func(ctx context.Context) {
		postgres.MonitorPool(ctx, pool, poolMonitorInterval, logger)
	})
	stopper.Register("pool_monitor", monitor.Shutdown)

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)
	return postgres.NewOrderRepository(pool, logger), observability.NewHealthChecker(pool), nil
}

func initGateway(cfg *config.Config, apiKey string, logger *zap.Logger) (*gateway.Client, *gateway.CircuitBreaker) {
	breakerCfg := gateway.DefaultCircuitBreakerConfig()
	breakerCfg.OnStateChange = func(from, to gateway.CircuitState) {
		observability.SetCircuitBreakerState(int(to))
		logger.Warn("Gateway circuit breaker changed state",
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}

	gwCfg := gateway.DefaultConfig(cfg.Gateway.BaseURL(), apiKey)
	gwCfg.Debug = cfg.Gateway.Debug

	breaker := gateway.NewCircuitBreaker(breakerCfg)
	client := gateway.NewClient(
		gwCfg,
		pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), cfg.Gateway.Timeout),
		breaker,
		logging.NewZapLogger(logger, "gateway"),
	)
	return client, breaker
}

func loadCatalogue(path string) ([]domain.PaymentOption, error) {
	if path == "" {
		return paymentoption.DefaultCatalogue(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open payment options file: %w", err)
	}
	defer f.Close()
	return paymentoption.LoadCatalogue(f)
}
