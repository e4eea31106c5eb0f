package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"github.com/kevin07696/checkout-bridge/internal/services/ports"
	"github.com/kevin07696/checkout-bridge/pkg/resilience"
	"github.com/kevin07696/checkout-bridge/test/mocks"
)

func TestNotify_AlwaysAcknowledges(t *testing.T) {
	outcomes := []ports.NotificationOutcome{
		ports.NotificationProcessed,
		ports.NotificationDuplicate,
		ports.NotificationUnknownReference,
		ports.NotificationForeignModule,
		ports.NotificationGatewayError,
		ports.NotificationStoreError,
	}
	for _, outcome := range outcomes {
		t.Run(string(outcome), func(t *testing.T) {
			svc := new(mocks.MockNotificationService)
			svc.On("Handle", mock.Anything, "1042").Return(outcome)
			h := NewHandler(svc, resilience.TestTimeoutConfig(), zaptest.NewLogger(t))

			rec := httptest.NewRecorder()
			h.Notify(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notification?transactionid=1042&timestamp=1700000000", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "OK", rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
			svc.AssertExpectations(t)
		})
	}
}

func TestNotify_ReferenceSources(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		wantRef string
	}{
		{"query wins over body", http.MethodPost, "/api/v1/notification?transactionid=1042", `{"order_id":"9999"}`, "1042"},
		{"post body fallback", http.MethodPost, "/api/v1/notification", `{"order_id":"ABCDEFGHI","status":"completed"}`, "ABCDEFGHI"},
		{"malformed body", http.MethodPost, "/api/v1/notification", `{"order_id":`, ""},
		{"get without query", http.MethodGet, "/api/v1/notification", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockNotificationService)
			svc.On("Handle", mock.Anything, tt.wantRef).Return(ports.NotificationInvalid)
			h := NewHandler(svc, resilience.TestTimeoutConfig(), zaptest.NewLogger(t))

			rec := httptest.NewRecorder()
			h.Notify(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, "OK", rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestNotify_BoundedContext(t *testing.T) {
	svc := new(mocks.MockNotificationService)
	svc.On("Handle", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "1042").Return(ports.NotificationProcessed)
	h := NewHandler(svc, resilience.TestTimeoutConfig(), zaptest.NewLogger(t))

	h.Notify(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/notification?transactionid=1042", nil))
	svc.AssertExpectations(t)
}
