// Package gateway is the REST client for the payment gateway's JSON API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest"
	"github.com/kevin07696/checkout-bridge/pkg/observability"
	"github.com/kevin07696/checkout-bridge/pkg/resilience"
)

const (
	opCreateOrder   = "create_order"
	opGetOrder      = "get_order"
	opUpdateOrder   = "update_order"
	opRefund        = "refund"
	opWalletSession = "wallet_session"
	opAPIToken      = "api_token"

	maxLoggedBody = 4096

	defaultMaxResponseBytes = 1 << 20
)

// Config contains configuration for the gateway client
type Config struct {
	BaseURL     string // e.g. "https://testapi.multisafepay.com/v1/json"
	APIKey      string
	Debug       bool // log request and response payloads
	ReadRetries int  // extra attempts for idempotent reads
	Backoff     resilience.BackoffStrategy

	MaxResponseBytes int64 // larger response bodies are rejected
}

// DefaultConfig returns defaults for the given base URL and key
func DefaultConfig(baseURL, apiKey string) *Config {
	return &Config{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		APIKey:      apiKey,
		ReadRetries: 2,
		Backoff:     resilience.GatewayReadBackoff(),

		MaxResponseBytes: defaultMaxResponseBytes,
	}
}

// Client implements ports.GatewayAdapter
type Client struct {
	config     *Config
	httpClient ports.HTTPClient
	breaker    *CircuitBreaker
	logger     ports.Logger
}

var _ ports.GatewayAdapter = (*Client)(nil)

// NewClient creates a gateway client
func NewClient(
	config *Config,
	httpClient ports.HTTPClient,
	breaker *CircuitBreaker,
	logger ports.Logger,
) *Client {
	if config.Backoff == nil {
		config.Backoff = resilience.GatewayReadBackoff()
	}
	if config.MaxResponseBytes <= 0 {
		config.MaxResponseBytes = defaultMaxResponseBytes
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
		breaker:    breaker,
		logger:     logger,
	}
}

// envelope wraps every gateway response
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	ErrorCode int             `json:"error_code"`
	ErrorInfo string          `json:"error_info"`
}

// CreateOrder registers an order request. It is never retried: the gateway
// rejects a second order with the same order_id.
func (c *Client) CreateOrder(ctx context.Context, req *orderrequest.OrderRequest) (*TransactionResponse, error) {
	c.logger.Info("Creating gateway order",
		ports.String("order_id", req.OrderID),
		ports.String("gateway", req.Gateway),
		ports.String("type", string(req.Type)),
	)

	var out ports.TransactionResponse
	if err := c.call(ctx, opCreateOrder, http.MethodPost, "orders", req, &out); err != nil {
		return nil, toDomainError(opCreateOrder, err)
	}
	return &out, nil
}

// GetOrder fetches the transaction for an order id
func (c *Client) GetOrder(ctx context.Context, orderID string) (*ports.Transaction, error) {
	var out ports.Transaction
	err := c.callWithRetry(ctx, opGetOrder, http.MethodGet, "orders/"+url.PathEscape(orderID), nil, &out)
	if err != nil {
		return nil, toDomainError(opGetOrder, err)
	}
	return &out, nil
}

// UpdateOrder pushes invoice or shipment details
func (c *Client) UpdateOrder(ctx context.Context, orderID string, req *ports.UpdateRequest) error {
	c.logger.Info("Updating gateway order",
		ports.String("order_id", orderID),
		ports.String("status", req.Status),
	)
	return toDomainError(opUpdateOrder,
		c.call(ctx, opUpdateOrder, http.MethodPatch, "orders/"+url.PathEscape(orderID), req, nil))
}

// Refund refunds part or all of an order
func (c *Client) Refund(ctx context.Context, orderID string, req *ports.RefundRequest) (*ports.RefundResponse, error) {
	c.logger.Info("Refunding gateway order",
		ports.String("order_id", orderID),
		ports.String("currency", req.Currency),
		ports.Field{Key: "amount", Value: req.Amount},
	)

	var out ports.RefundResponse
	if err := c.call(ctx, opRefund, http.MethodPost, "orders/"+url.PathEscape(orderID)+"/refunds", req, &out); err != nil {
		return nil, toDomainError(opRefund, err)
	}
	return &out, nil
}

// CreateWalletSession proxies wallet merchant validation
func (c *Client) CreateWalletSession(ctx context.Context, req *ports.WalletSessionRequest) (*ports.WalletSession, error) {
	var out ports.WalletSession
	if err := c.call(ctx, opWalletSession, http.MethodPost, "wallets/sessions/applepay", req, &out); err != nil {
		return nil, toDomainError(opWalletSession, err)
	}
	return &out, nil
}

// GetAPIToken issues a token for embedded payment components
func (c *Client) GetAPIToken(ctx context.Context) (*ports.APIToken, error) {
	var out ports.APIToken
	if err := c.callWithRetry(ctx, opAPIToken, http.MethodGet, "auth/api_token", nil, &out); err != nil {
		return nil, toDomainError(opAPIToken, err)
	}
	return &out, nil
}

// TransactionResponse is re-exported for callers that only import this package
type TransactionResponse = ports.TransactionResponse

// callWithRetry retries idempotent reads on gateway failures
func (c *Client) callWithRetry(ctx context.Context, op, method, path string, body, out interface{}) error {
	policy := resilience.RetryPolicy{
		Retries:   c.config.ReadRetries,
		Backoff:   c.config.Backoff,
		Retryable: isRetryable,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.logger.Warn("Retrying gateway call",
				ports.String("operation", op),
				ports.Int("attempt", attempt),
				ports.Duration("delay", delay),
				ports.Err(err),
			)
		},
	}
	return resilience.Retry(ctx, policy, func() error {
		return c.call(ctx, op, method, path, body, out)
	})
}

// call runs one request through the circuit breaker and records metrics
func (c *Client) call(ctx context.Context, op, method, path string, body, out interface{}) error {
	if c.config.APIKey == "" {
		return domain.WrapError(domain.ErrorCodeConfigMissingAPIKey, "gateway api key", domain.ErrMissingAPIKey)
	}

	start := time.Now()
	err := c.breaker.Call(func() error {
		return c.roundTrip(ctx, op, method, path, body, out)
	})
	observability.RecordGatewayCall(op, callResult(err), time.Since(start))
	return err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		if c.config.Debug {
			c.logger.Debug("Gateway request",
				ports.String("operation", op),
				ports.String("payload", truncate(payload)),
			)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.config.BaseURL + "/" + path
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api_key", c.config.APIKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Gateway request failed",
			ports.String("operation", op),
			ports.Err(err),
			ports.Duration("elapsed", time.Since(startTime)),
		)
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(respBody)) > c.config.MaxResponseBytes {
		return fmt.Errorf("response body exceeds %d bytes", c.config.MaxResponseBytes)
	}

	c.logger.Debug("Gateway response",
		ports.String("operation", op),
		ports.Int("status_code", resp.StatusCode),
		ports.Duration("elapsed", time.Since(startTime)),
	)
	if c.config.Debug {
		c.logger.Debug("Gateway response body",
			ports.String("operation", op),
			ports.String("body", truncate(respBody)),
		)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Operation: op, StatusCode: resp.StatusCode, Info: truncate(respBody)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Operation: op, StatusCode: resp.StatusCode, Code: env.ErrorCode, Info: env.ErrorInfo}
		c.logger.Warn("Gateway returned an error",
			ports.String("operation", op),
			ports.Int("status_code", resp.StatusCode),
			ports.Int("error_code", env.ErrorCode),
			ports.String("error_info", env.ErrorInfo),
		)
		return apiErr
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func callResult(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrCircuitOpen), errors.Is(err, ErrTooManyRequests):
		return "circuit_open"
	case errors.As(err, &apiErr):
		return "api_error"
	default:
		return "transport_error"
	}
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}
