// Package hooks serves the host platform's order event endpoints
package hooks

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/handlers/respond"
	"github.com/kevin07696/checkout-bridge/internal/services/ports"
)

const maxBodyBytes = 64 << 10

// Handler turns host events into gateway updates. The host never sees a
// gateway failure: every accepted event is answered with 202 and the result.
type Handler struct {
	updates ports.OrderUpdateService
	logger  *zap.Logger
}

// NewHandler creates a new hooks handler
func NewHandler(updates ports.OrderUpdateService, logger *zap.Logger) *Handler {
	return &Handler{updates: updates, logger: logger}
}

// Response reports what happened to an event
type Response struct {
	Result ports.UpdateResult `json:"result"`
}

// Invoice handles POST /api/v1/hooks/invoice
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	var ev ports.InvoiceEvent
	if !h.decode(w, r, &ev, &ev.OrderRef) {
		return
	}
	h.accepted(w, h.updates.OnInvoiced(r.Context(), ev))
}

// Status handles POST /api/v1/hooks/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	var ev ports.StatusChangeEvent
	if !h.decode(w, r, &ev, &ev.OrderRef) {
		return
	}
	if ev.NewStatus == "" {
		respond.Message(w, http.StatusUnprocessableEntity, domain.ErrorCodeValidationMissingField, "new_status is required")
		return
	}
	h.accepted(w, h.updates.OnStatusChanged(r.Context(), ev))
}

// Refund handles POST /api/v1/hooks/refund
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	var ev ports.RefundEvent
	if !h.decode(w, r, &ev, &ev.OrderRef) {
		return
	}
	if ev.AmountCents <= 0 {
		respond.Message(w, http.StatusUnprocessableEntity, domain.ErrorCodeValidationAmountInvalid, "amount_cents must be positive")
		return
	}
	h.accepted(w, h.updates.OnRefund(r.Context(), ev))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}, ref *ports.OrderRef) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.logger.Warn("Malformed hook body", zap.String("path", r.URL.Path), zap.Error(err))
		respond.Message(w, http.StatusBadRequest, domain.ErrorCodeValidationFailed, "malformed JSON body")
		return false
	}
	if ref.Reference == "" && ref.CartID == "" {
		respond.Message(w, http.StatusUnprocessableEntity, domain.ErrorCodeValidationMissingField, "reference or cart_id is required")
		return false
	}
	return true
}

func (h *Handler) accepted(w http.ResponseWriter, result ports.UpdateResult) {
	respond.JSON(w, http.StatusAccepted, Response{Result: result})
}
