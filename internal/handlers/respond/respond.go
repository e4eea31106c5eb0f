// Package respond writes JSON responses and maps domain errors to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// ErrorBody is the JSON error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an error envelope. Errors without a domain code and
// internal failures are logged and hidden from the client.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := StatusFor(err)

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) || status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
		Message(w, http.StatusInternalServerError, domain.ErrorCodeInternalError, "internal error")
		return
	}

	detail := ErrorDetail{Code: string(domainErr.Code), Message: domainErr.Message}
	if status < http.StatusInternalServerError {
		if len(domainErr.Details) > 0 {
			detail.Details = domainErr.Details
		}
	} else {
		logger.Warn("Request failed",
			zap.String("error_code", string(domainErr.Code)),
			zap.Error(err))
	}
	JSON(w, status, ErrorBody{Error: detail})
}

// Message writes a plain error envelope without a domain error
func Message(w http.ResponseWriter, status int, code domain.ErrorCode, message string) {
	JSON(w, status, ErrorBody{Error: ErrorDetail{Code: string(code), Message: message}})
}

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	switch code := domain.GetErrorCode(err); {
	case domain.IsValidationError(err), code == domain.ErrorCodeOptionUnavailable:
		return http.StatusUnprocessableEntity
	case domain.IsNotFoundError(err):
		return http.StatusNotFound
	case code == domain.ErrorCodeOrderAlreadyExists:
		return http.StatusConflict
	case domain.IsConfigError(err), code == domain.ErrorCodeGatewayUnavailable:
		return http.StatusServiceUnavailable
	case code == domain.ErrorCodeGatewayTimeout:
		return http.StatusGatewayTimeout
	case code == domain.ErrorCodeGatewayError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
