package hooks

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"github.com/kevin07696/checkout-bridge/internal/services/ports"
	"github.com/kevin07696/checkout-bridge/test/mocks"
)

func newTestHandler(t *testing.T) (*Handler, *mocks.MockOrderUpdateService) {
	t.Helper()
	updates := new(mocks.MockOrderUpdateService)
	t.Cleanup(func() { updates.AssertExpectations(t) })
	return NewHandler(updates, zaptest.NewLogger(t)), updates
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/v1/hooks", strings.NewReader(body)))
	return rec
}

func TestInvoice(t *testing.T) {
	h, updates := newTestHandler(t)
	updates.On("OnInvoiced", mock.Anything, ports.InvoiceEvent{
		OrderRef:  ports.OrderRef{Reference: "ABCDEFGHI", CartID: "1042"},
		InvoiceID: "INV-17",
	}).Return(ports.UpdateSent)

	rec := post(h.Invoice, `{"reference":"ABCDEFGHI","cart_id":"1042","invoice_id":"INV-17"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"result":"sent"}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	h, updates := newTestHandler(t)
	updates.On("OnStatusChanged", mock.Anything, ports.StatusChangeEvent{
		OrderRef:       ports.OrderRef{CartID: "1042"},
		NewStatus:      "shipped",
		TrackTraceCode: "3SABCD1234567",
		Carrier:        "PostNL",
	}).Return(ports.UpdateFailed)

	rec := post(h.Status, `{"cart_id":"1042","new_status":"shipped","tracktrace_code":"3SABCD1234567","carrier":"PostNL"}`)

	// gateway failures never surface as errors to the host
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"result":"failed"}`, rec.Body.String())
}

func TestRefund(t *testing.T) {
	h, updates := newTestHandler(t)
	updates.On("OnRefund", mock.Anything, ports.RefundEvent{
		OrderRef:    ports.OrderRef{CartID: "1042"},
		AmountCents: 1210,
		Currency:    "EUR",
	}).Return(ports.UpdateSent)

	rec := post(h.Refund, `{"cart_id":"1042","amount_cents":1210,"currency":"EUR"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHooks_Rejected(t *testing.T) {
	h, updates := newTestHandler(t)

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		body       string
		wantStatus int
	}{
		{"malformed", h.Invoice, `{`, http.StatusBadRequest},
		{"no order ref", h.Invoice, `{"invoice_id":"1"}`, http.StatusUnprocessableEntity},
		{"status missing", h.Status, `{"cart_id":"1042"}`, http.StatusUnprocessableEntity},
		{"zero refund", h.Refund, `{"cart_id":"1042","amount_cents":0}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(tt.handler, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
	updates.AssertNotCalled(t, "OnInvoiced", mock.Anything, mock.Anything)
	updates.AssertNotCalled(t, "OnStatusChanged", mock.Anything, mock.Anything)
	updates.AssertNotCalled(t, "OnRefund", mock.Anything, mock.Anything)
}
