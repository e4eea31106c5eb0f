package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Configuration Errors (CONFIG_*)
	ErrorCodeConfigMissingAPIKey ErrorCode = "CONFIG_MISSING_API_KEY"
	ErrorCodeConfigInvalid       ErrorCode = "CONFIG_INVALID"

	// Payment Option Errors (OPTION_*)
	ErrorCodeOptionNotFound    ErrorCode = "OPTION_NOT_FOUND"
	ErrorCodeOptionUnavailable ErrorCode = "OPTION_UNAVAILABLE"

	// Order Errors (ORDER_*)
	ErrorCodeOrderNotFound      ErrorCode = "ORDER_NOT_FOUND"
	ErrorCodeOrderAlreadyExists ErrorCode = "ORDER_ALREADY_EXISTS"

	// Validation Errors (VALIDATION_*)
	ErrorCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrorCodeValidationAmountInvalid ErrorCode = "VALIDATION_AMOUNT_INVALID"
	ErrorCodeValidationMissingField  ErrorCode = "VALIDATION_MISSING_FIELD"
	ErrorCodeValidationCurrency      ErrorCode = "VALIDATION_CURRENCY_INVALID"
	ErrorCodeAddressInvalid          ErrorCode = "ADDRESS_INVALID"

	// Payment Gateway Errors (GATEWAY_*)
	ErrorCodeGatewayError       ErrorCode = "GATEWAY_ERROR"
	ErrorCodeGatewayTimeout     ErrorCode = "GATEWAY_TIMEOUT"
	ErrorCodeGatewayUnavailable ErrorCode = "GATEWAY_UNAVAILABLE"

	// Internal Errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsNotFoundError checks if an error represents a "not found" condition
func IsNotFoundError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeOrderNotFound ||
		code == ErrorCodeOptionNotFound
}

// IsValidationError checks if an error is a validation error.
// Callers abort the checkout and send the shopper back a step.
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationFailed ||
		code == ErrorCodeValidationAmountInvalid ||
		code == ErrorCodeValidationMissingField ||
		code == ErrorCodeValidationCurrency ||
		code == ErrorCodeAddressInvalid
}

// IsGatewayError checks if an error is a payment gateway error
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayError ||
		code == ErrorCodeGatewayTimeout ||
		code == ErrorCodeGatewayUnavailable
}

// IsConfigError checks if an error is caused by missing or invalid configuration
func IsConfigError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeConfigMissingAPIKey ||
		code == ErrorCodeConfigInvalid
}

// Sentinel errors returned by repositories and adapters
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrMissingAPIKey      = errors.New("gateway api key is not configured")
)
