// Package notification serves the gateway's server to server notification
// endpoint
package notification

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/services/ports"
	"github.com/kevin07696/checkout-bridge/pkg/resilience"
)

const (
	ackBody      = "OK"
	maxBodyBytes = 64 << 10
)

// Handler acknowledges every notification with a plaintext OK, whatever the
// outcome
type Handler struct {
	service  ports.NotificationService
	timeouts *resilience.TimeoutConfig
	logger   *zap.Logger
}

// NewHandler creates a new notification handler
func NewHandler(service ports.NotificationService, timeouts *resilience.TimeoutConfig, logger *zap.Logger) *Handler {
	if timeouts == nil {
		timeouts = resilience.DefaultTimeoutConfig()
	}
	return &Handler{
		service:  service,
		timeouts: timeouts,
		logger:   logger,
	}
}

// notificationBody is the part of a POST notification we read. Status is
// always fetched from the gateway.
type notificationBody struct {
	OrderID string `json:"order_id"`
}

// Notify handles GET|POST /api/v1/notification?transactionid=...
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	ref := h.reference(r)

	ctx, cancel := h.timeouts.NotificationContext(r.Context())
	defer cancel()

	outcome := h.service.Handle(ctx, ref)
	h.logger.Debug("Notification acknowledged",
		zap.String("order_id", ref),
		zap.String("outcome", string(outcome)),
	)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, ackBody)
}

func (h *Handler) reference(r *http.Request) string {
	if ref := strings.TrimSpace(r.URL.Query().Get("transactionid")); ref != "" {
		return ref
	}
	if r.Method != http.MethodPost || r.Body == nil {
		return ""
	}

	var body notificationBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		h.logger.Warn("Unreadable notification body", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(body.OrderID)
}
