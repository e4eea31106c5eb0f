package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/config"
	"github.com/kevin07696/checkout-bridge/pkg/logging"
	"github.com/kevin07696/checkout-bridge/pkg/shutdown"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logger.Level
	if cfg.Gateway.Debug {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Logger.Development || !cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Checkout bridge stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting checkout bridge",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Database.Driver),
		zap.Bool("gateway_test_mode", cfg.Gateway.TestMode),
		zap.Bool("create_order_before_payment", cfg.Checkout.CreateOrderBeforePayment),
	)

	ctx := context.Background()
	stopper := shutdown.NewManager(logger, shutdownTimeout)

	deps, err := initDependencies(ctx, cfg, stopper, logger)
	if err != nil {
		_ = stopper.Shutdown()
		return err
	}

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           deps.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * cfg.Server.WriteTimeout,
	}
	stopper.Register("http_server", server.Shutdown)

	serveCtx, stopServing := context.WithCancelCause(ctx)
	defer stopServing(nil)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("address", server.Addr),
			zap.String("public_base_url", cfg.Server.PublicBaseURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stopServing(fmt.Errorf("serve http: %w", err))
		}
	}()

	if err := stopper.Wait(serveCtx); err != nil {
		return err
	}
	return context.Cause(serveCtx)
}
