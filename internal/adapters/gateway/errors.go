package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// APIError is a non-success answer from the gateway
type APIError struct {
	Operation  string
	StatusCode int
	Code       int    // gateway error_code
	Info       string // gateway error_info
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway %s failed: status %d, error_code %d: %s", e.Operation, e.StatusCode, e.Code, e.Info)
}

// Temporary reports whether the same request may succeed later
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// isGatewayFailure is true for errors that say something about the gateway's
// health. Rejected requests (4xx) and caller cancellation are not.
func isGatewayFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}

func isRetryable(err error) bool {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return isGatewayFailure(err)
}

// toDomainError maps a raw client error onto the GATEWAY_* codes
func toDomainError(operation string, err error) error {
	if err == nil {
		return nil
	}
	var existing *domain.DomainError
	if errors.As(err, &existing) {
		return err
	}

	code := domain.ErrorCodeGatewayError
	var netErr net.Error
	switch {
	case errors.Is(err, ErrCircuitOpen), errors.Is(err, ErrTooManyRequests):
		code = domain.ErrorCodeGatewayUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = domain.ErrorCodeGatewayTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		code = domain.ErrorCodeGatewayTimeout
	}

	domainErr := domain.WrapError(code, "gateway "+operation, err).WithDetail("operation", operation)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		domainErr.WithDetail("status_code", apiErr.StatusCode).WithDetail("error_code", apiErr.Code)
	}
	return domainErr
}

// IsNotFound reports whether the gateway does not know the order
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
