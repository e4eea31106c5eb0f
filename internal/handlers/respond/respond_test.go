package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code domain.ErrorCode
		want int
	}{
		{domain.ErrorCodeValidationCurrency, http.StatusUnprocessableEntity},
		{domain.ErrorCodeAddressInvalid, http.StatusUnprocessableEntity},
		{domain.ErrorCodeOptionUnavailable, http.StatusUnprocessableEntity},
		{domain.ErrorCodeOptionNotFound, http.StatusNotFound},
		{domain.ErrorCodeOrderNotFound, http.StatusNotFound},
		{domain.ErrorCodeOrderAlreadyExists, http.StatusConflict},
		{domain.ErrorCodeConfigMissingAPIKey, http.StatusServiceUnavailable},
		{domain.ErrorCodeGatewayUnavailable, http.StatusServiceUnavailable},
		{domain.ErrorCodeGatewayTimeout, http.StatusGatewayTimeout},
		{domain.ErrorCodeGatewayError, http.StatusBadGateway},
		{domain.ErrorCodeDatabaseError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", domain.NewDomainError(tt.code, "x"))
			assert.Equal(t, tt.want, StatusFor(err))
		})
	}
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("plain")))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestError_ValidationKeepsDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := domain.NewDomainError(domain.ErrorCodeOptionUnavailable, "payment option not available").WithDetail("code", "IDEAL")

	Error(rec, zaptest.NewLogger(t), err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, "OPTION_UNAVAILABLE", body.Error.Code)
	assert.Equal(t, "IDEAL", body.Error.Details["code"])
}

func TestError_InternalIsHidden(t *testing.T) {
	for _, err := range []error{
		errors.New("dial tcp 10.0.0.3:5432: connection refused"),
		domain.WrapError(domain.ErrorCodeDatabaseError, "create order", errors.New("password authentication failed")),
	} {
		rec := httptest.NewRecorder()
		Error(rec, zaptest.NewLogger(t), err)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.Equal(t, "internal error", body.Error.Message)
	}
}

func TestError_GatewayDropsDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := domain.NewDomainError(domain.ErrorCodeGatewayError, "gateway rejected the request").WithDetail("gateway_code", 1006)

	Error(rec, zaptest.NewLogger(t), err)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "GATEWAY_ERROR", body.Error.Code)
	assert.Nil(t, body.Error.Details)
}
