// Package checkout serves the shopper facing checkout endpoints
package checkout

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	adapterports "github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/handlers/respond"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest"
	"github.com/kevin07696/checkout-bridge/internal/services/paymentoption"
	"github.com/kevin07696/checkout-bridge/internal/services/ports"
)

const maxBodyBytes = 1 << 20

// OptionLister lists the payment options available for a checkout
type OptionLister interface {
	Available(f paymentoption.Filter) []domain.PaymentOption
}

// Handler serves payment initiation, return polling and wallet endpoints
type Handler struct {
	checkout ports.CheckoutService
	options  OptionLister
	logger   *zap.Logger
}

// NewHandler creates a new checkout handler
func NewHandler(checkout ports.CheckoutService, options OptionLister, logger *zap.Logger) *Handler {
	return &Handler{
		checkout: checkout,
		options:  options,
		logger:   logger,
	}
}

// InitiateRequest is the body of POST /api/v1/payments
type InitiateRequest struct {
	Cart                    *domain.Cart      `json:"cart"`
	Customer                *domain.Customer  `json:"customer,omitempty"`
	PaymentOption           string            `json:"payment_option"`
	GatewayInfo             map[string]string `json:"gateway_info,omitempty"`
	PaymentComponentPayload string            `json:"payment_component_payload,omitempty"`
	TokenID                 string            `json:"token_id,omitempty"`
	SaveToken               bool              `json:"save_token,omitempty"`
}

// InitiateResponse tells the storefront where to send the shopper
type InitiateResponse struct {
	OrderID      string `json:"order_id"`
	LocalOrderID string `json:"local_order_id"`
	Reference    string `json:"reference,omitempty"`
	PaymentURL   string `json:"payment_url,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
}

// ProcessOrderResponse is the polling answer after the shopper returns
type ProcessOrderResponse struct {
	OrderID     string `json:"order_id"`
	Exists      bool   `json:"exists"`
	Status      string `json:"status,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
	PollURL     string `json:"poll_url,omitempty"`
}

// ListOptions handles GET /api/v1/payment-options?currency=EUR&country=NL&amount=2420
func (h *Handler) ListOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := paymentoption.Filter{
		Currency: strings.ToUpper(q.Get("currency")),
		Country:  strings.ToUpper(q.Get("country")),
	}
	if raw := q.Get("amount"); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || amount < 0 {
			respond.Message(w, http.StatusBadRequest, domain.ErrorCodeValidationAmountInvalid, "amount must be a non-negative integer in minor units")
			return
		}
		filter.AmountCents = amount
	}

	options := h.options.Available(filter)
	if options == nil {
		options = []domain.PaymentOption{}
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{"payment_options": options})
}

// Initiate handles POST /api/v1/payments
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	var body InitiateRequest
	if !h.decode(w, r, &body) {
		return
	}
	if body.PaymentOption == "" {
		respond.Message(w, http.StatusUnprocessableEntity, domain.ErrorCodeValidationMissingField, "payment_option is required")
		return
	}

	res, err := h.checkout.Initiate(r.Context(), &ports.InitiateRequest{
		Cart:                    body.Cart,
		Customer:                body.Customer,
		OptionCode:              body.PaymentOption,
		Client:                  clientInfo(r),
		GatewayInfo:             body.GatewayInfo,
		PaymentComponentPayload: body.PaymentComponentPayload,
		TokenID:                 body.TokenID,
		SaveToken:               body.SaveToken,
	})
	if err != nil {
		h.logger.Info("Checkout rejected",
			zap.String("payment_option", body.PaymentOption),
			zap.String("error_code", string(domain.GetErrorCode(err))),
		)
		respond.Error(w, h.logger, err)
		return
	}

	respond.JSON(w, http.StatusCreated, InitiateResponse{
		OrderID:      res.OrderID,
		LocalOrderID: res.LocalOrderID.String(),
		Reference:    res.Reference,
		PaymentURL:   res.PaymentURL,
		SessionID:    res.SessionID,
	})
}

// Callback handles GET /api/v1/callback?order_id=..., the URL the gateway
// sends the shopper back to. The notification may not have arrived yet, in
// which case the storefront polls processorder.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	state, ok := h.orderState(w, r)
	if !ok {
		return
	}
	if state.Exists {
		http.Redirect(w, r, state.RedirectURL, http.StatusFound)
		return
	}
	respond.JSON(w, http.StatusAccepted, ProcessOrderResponse{
		OrderID: state.OrderID,
		Status:  state.Status,
		PollURL: "/api/v1/processorder?" + url.Values{"order_id": {state.OrderID}}.Encode(),
	})
}

// ProcessOrder handles GET /api/v1/processorder?order_id=...
func (h *Handler) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	state, ok := h.orderState(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, ProcessOrderResponse{
		OrderID:     state.OrderID,
		Exists:      state.Exists,
		Status:      state.Status,
		RedirectURL: state.RedirectURL,
	})
}

// WalletSession handles POST /api/v1/wallet/applepay/session
func (h *Handler) WalletSession(w http.ResponseWriter, r *http.Request) {
	var body adapterports.WalletSessionRequest
	if !h.decode(w, r, &body) {
		return
	}
	session, err := h.checkout.WalletSession(r.Context(), &body)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, session)
}

// ComponentToken handles GET /api/v1/payment-component/token
func (h *Handler) ComponentToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.checkout.ComponentToken(r.Context())
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, token)
}

func (h *Handler) orderState(w http.ResponseWriter, r *http.Request) (*ports.OrderState, bool) {
	orderID := strings.TrimSpace(r.URL.Query().Get("order_id"))
	if orderID == "" {
		respond.Message(w, http.StatusBadRequest, domain.ErrorCodeValidationMissingField, "order_id is required")
		return nil, false
	}
	state, err := h.checkout.OrderExists(r.Context(), orderID)
	if err != nil {
		respond.Error(w, h.logger, err)
		return nil, false
	}
	return state, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Message(w, http.StatusRequestEntityTooLarge, domain.ErrorCodeValidationFailed, "request body too large")
			return false
		}
		h.logger.Debug("Malformed request body", zap.String("path", r.URL.Path), zap.Error(err))
		respond.Message(w, http.StatusBadRequest, domain.ErrorCodeValidationFailed, "malformed JSON body")
		return false
	}
	return true
}

// clientInfo collects the shopper's browser details for fraud screening
func clientInfo(r *http.Request) orderrequest.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return orderrequest.ClientInfo{
		IPAddress:   ip,
		ForwardedIP: r.Header.Get("X-Forwarded-For"),
		UserAgent:   r.UserAgent(),
		Referrer:    r.Referer(),
	}
}
