// Package checkout starts payments: it records the local order, assembles
// the gateway order request and dispatches it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	adapterports "github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/config"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/money"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest"
	"github.com/kevin07696/checkout-bridge/internal/services/paymentoption"
	"github.com/kevin07696/checkout-bridge/internal/services/ports"
	"github.com/kevin07696/checkout-bridge/pkg/observability"
)

const (
	referenceLength = 9
	sourceCheckout  = "checkout"
)

var maxTaxRate = decimal.NewFromInt(100)

// OptionResolver looks up declared payment options
type OptionResolver interface {
	Get(code string) (domain.PaymentOption, error)
	CheckAvailable(opt domain.PaymentOption, f paymentoption.Filter) error
}

// RequestBuilder assembles gateway order requests
type RequestBuilder interface {
	Build(in orderrequest.Input) (orderrequest.OrderRequest, error)
}

// Service implements ports.CheckoutService
type Service struct {
	options  OptionResolver
	builder  RequestBuilder
	gateway  adapterports.GatewayAdapter
	orders   adapterports.OrderRepository
	checkout config.CheckoutConfig
	status   config.StatusConfig
	logger   *zap.Logger

	newReference func() string
}

var _ ports.CheckoutService = (*Service)(nil)

// NewService creates a new checkout service
func NewService(
	options OptionResolver,
	builder RequestBuilder,
	gateway adapterports.GatewayAdapter,
	orders adapterports.OrderRepository,
	checkout config.CheckoutConfig,
	status config.StatusConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		options:      options,
		builder:      builder,
		gateway:      gateway,
		orders:       orders,
		checkout:     checkout,
		status:       status,
		logger:       logger,
		newReference: newReference,
	}
}

// Initiate records the local order, builds the order request and sends it
// to the gateway. Any gateway failure aborts the checkout.
func (s *Service) Initiate(ctx context.Context, req *ports.InitiateRequest) (*ports.InitiateResult, error) {
	if err := validateCart(req.Cart); err != nil {
		return nil, err
	}

	opt, err := s.options.Get(req.OptionCode)
	if err != nil {
		return nil, err
	}

	amount := money.PriceToCents(req.Cart.Summary.OrderTotal)
	filter := paymentoption.Filter{
		Currency:    strings.ToUpper(req.Cart.Currency),
		AmountCents: amount,
	}
	if req.Cart.InvoiceAddress != nil {
		filter.Country = req.Cart.InvoiceAddress.CountryISO
	}
	if err := s.options.CheckAvailable(opt, filter); err != nil {
		return nil, err
	}

	order, err := s.localOrder(ctx, req.Cart, opt, amount)
	if err != nil {
		return nil, err
	}

	in := orderrequest.Input{
		Cart:                    req.Cart,
		Customer:                req.Customer,
		Option:                  opt,
		Client:                  req.Client,
		GatewayInfo:             req.GatewayInfo,
		PaymentComponentPayload: req.PaymentComponentPayload,
		TokenID:                 req.TokenID,
		SaveToken:               req.SaveToken,
	}
	if s.checkout.CreateOrderBeforePayment {
		in.Order = order
	}

	orderReq, err := s.builder.Build(in)
	if err != nil {
		observability.RecordOrderRequest(opt.Code, string(opt.Type), "invalid", filter.Currency, amount)
		s.markFailed(ctx, order)
		return nil, err
	}

	resp, err := s.gateway.CreateOrder(ctx, &orderReq)
	if err != nil {
		observability.RecordOrderRequest(opt.Code, string(orderReq.Type), "gateway_error", orderReq.Currency, orderReq.Amount)
		s.logger.Error("Gateway rejected order request",
			zap.String("order_id", orderReq.OrderID),
			zap.String("gateway", opt.Code),
			zap.Error(err),
		)
		s.markFailed(ctx, order)
		return nil, asGatewayError(err)
	}

	observability.RecordOrderRequest(opt.Code, string(orderReq.Type), "success", orderReq.Currency, orderReq.Amount)
	s.logger.Info("Payment initiated",
		zap.String("order_id", orderReq.OrderID),
		zap.String("local_order_id", order.ID.String()),
		zap.String("gateway", opt.Code),
		zap.String("type", string(orderReq.Type)),
		zap.Int64("amount", orderReq.Amount),
	)

	return &ports.InitiateResult{
		OrderID:      orderReq.OrderID,
		LocalOrderID: order.ID,
		Reference:    order.Reference,
		PaymentURL:   resp.PaymentURL,
		SessionID:    resp.SessionID,
	}, nil
}

// OrderExists reports whether the confirmation page can be shown. Without
// order-before-payment the order only counts once a notification moved it
// past the initialized status.
func (s *Service) OrderExists(ctx context.Context, orderKey string) (*ports.OrderState, error) {
	if orderKey == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "order id is required")
	}

	found, err := s.orders.FindByGatewayReference(ctx, orderKey)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "look up order", err)
	}
	owned := lo.Filter(found, func(o *domain.Order, _ int) bool { return o.BelongsTo(s.checkout.ModuleName) })
	if len(owned) == 0 {
		return &ports.OrderState{OrderID: orderKey}, nil
	}
	order := owned[len(owned)-1]

	state := &ports.OrderState{
		OrderID: orderKey,
		Status:  order.StatusID,
		Exists:  s.checkout.CreateOrderBeforePayment || order.StatusID != s.initialStatus(),
	}
	if state.Exists {
		state.RedirectURL = strings.ReplaceAll(s.checkout.ConfirmationURL, "%s", orderKey)
	}
	return state, nil
}

// ComponentToken issues a payment component API token
func (s *Service) ComponentToken(ctx context.Context) (*adapterports.APIToken, error) {
	if !s.checkout.PaymentComponentsEnabled {
		return nil, domain.NewDomainError(domain.ErrorCodeOptionUnavailable, "payment components are disabled")
	}
	token, err := s.gateway.GetAPIToken(ctx)
	if err != nil {
		return nil, asGatewayError(err)
	}
	return token, nil
}

// WalletSession proxies a wallet merchant validation request
func (s *Service) WalletSession(ctx context.Context, req *adapterports.WalletSessionRequest) (*adapterports.WalletSession, error) {
	if req.OriginDomain == "" || req.ValidationURL == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationMissingField, "origin_domain and validation_url are required")
	}
	session, err := s.gateway.CreateWalletSession(ctx, req)
	if err != nil {
		return nil, asGatewayError(err)
	}
	return session, nil
}

// localOrder creates the order row. Without order-before-payment the gateway
// knows every attempt for a cart by the cart id, so an earlier unpaid order
// of the same cart is reopened instead of adding a second row.
func (s *Service) localOrder(ctx context.Context, cart *domain.Cart, opt domain.PaymentOption, amount int64) (*domain.Order, error) {
	currency := strings.ToUpper(cart.Currency)

	if !s.checkout.CreateOrderBeforePayment {
		existing, err := s.orders.GetByCartID(ctx, cart.ID)
		switch {
		case err == nil && existing.Reference == "" && existing.BelongsTo(s.checkout.ModuleName):
			return s.reopen(ctx, existing, opt.Code, currency, amount)
		case err != nil && !errors.Is(err, domain.ErrOrderNotFound):
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "look up pending order", err)
		}
	}

	order := &domain.Order{
		CartID:        cart.ID,
		PaymentModule: s.checkout.ModuleName,
		GatewayCode:   opt.Code,
		StatusID:      s.initialStatus(),
		Currency:      currency,
		AmountCents:   amount,
	}
	if s.checkout.CreateOrderBeforePayment {
		order.Reference = s.newReference()
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyExists) {
			return nil, domain.WrapError(domain.ErrorCodeOrderAlreadyExists, "create order", err)
		}
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "create order", err)
	}
	return order, nil
}

// reopen prepares an unpaid order for another attempt: payment details follow
// the current cart and a failed or canceled order goes back to the initial
// status. Paid carts are rejected.
func (s *Service) reopen(ctx context.Context, order *domain.Order, gatewayCode, currency string, amount int64) (*domain.Order, error) {
	if s.isSettled(order.StatusID) {
		return nil, domain.NewDomainError(domain.ErrorCodeOrderAlreadyExists, "cart has already been paid").
			WithDetail("cart_id", order.CartID).
			WithDetail("status", order.StatusID)
	}

	if order.GatewayCode != gatewayCode || order.Currency != currency || order.AmountCents != amount {
		if err := s.orders.RefreshAttempt(ctx, order.ID, gatewayCode, currency, amount); err != nil {
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "refresh pending order", err)
		}
		order.GatewayCode, order.Currency, order.AmountCents = gatewayCode, currency, amount
	}

	if initial := s.initialStatus(); order.StatusID != initial {
		applied, err := s.orders.TransitionStatus(ctx, order.ID, initial, sourceCheckout)
		if err != nil {
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "reopen order", err)
		}
		observability.RecordStatusTransition(initial, applied)
		order.StatusID = initial
	}

	s.logger.Debug("Reusing order of an earlier attempt",
		zap.String("cart_id", order.CartID),
		zap.String("local_order_id", order.ID.String()),
		zap.Int64("amount", amount),
	)
	return order, nil
}

// markFailed moves the local order to the error status after a failed checkout
func (s *Service) markFailed(ctx context.Context, order *domain.Order) {
	applied, err := s.orders.TransitionStatus(ctx, order.ID, s.status.ErrorStatus, sourceCheckout)
	if err != nil {
		s.logger.Error("Failed to mark order as failed",
			zap.String("local_order_id", order.ID.String()),
			zap.Error(err),
		)
		return
	}
	observability.RecordStatusTransition(s.status.ErrorStatus, applied)
}

func (s *Service) initialStatus() string {
	return s.status.Mapping[domain.TransactionStatusInitialized]
}

// settledTransactions are gateway statuses after which a cart counts as paid
var settledTransactions = []domain.TransactionStatus{
	domain.TransactionStatusCompleted,
	domain.TransactionStatusUncleared,
	domain.TransactionStatusRefunded,
	domain.TransactionStatusPartialRefunded,
	domain.TransactionStatusChargedBack,
	domain.TransactionStatusShipped,
}

func (s *Service) isSettled(statusID string) bool {
	if statusID == s.initialStatus() {
		return false
	}
	if s.status.ShippedTriggerStatus != "" && statusID == s.status.ShippedTriggerStatus {
		return true
	}
	return lo.ContainsBy(settledTransactions, func(ts domain.TransactionStatus) bool {
		return s.status.Mapping[ts] == statusID
	})
}

func validateCart(cart *domain.Cart) error {
	if cart == nil || cart.ID == "" {
		return domain.NewDomainError(domain.ErrorCodeValidationMissingField, "cart id is required")
	}
	if _, err := money.ParseCurrency(cart.Currency); err != nil {
		return domain.WrapError(domain.ErrorCodeValidationCurrency, "invalid cart currency",
			fmt.Errorf("%w: %v", domain.ErrInvalidCurrency, err))
	}
	if !cart.Summary.OrderTotal.IsPositive() {
		return domain.NewDomainError(domain.ErrorCodeValidationAmountInvalid, "order total must be positive").
			WithDetail("order_total", cart.Summary.OrderTotal.String())
	}
	if len(cart.Products) == 0 {
		return domain.NewDomainError(domain.ErrorCodeValidationFailed, "cart has no products")
	}
	for _, p := range cart.Products {
		if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(maxTaxRate) {
			return domain.NewDomainError(domain.ErrorCodeValidationFailed, "tax rate must be between 0 and 100").
				WithDetail("product_id", p.ProductID).
				WithDetail("tax_rate", p.TaxRate.String())
		}
	}
	s := cart.Summary
	if s.TotalShipping.IsNegative() || s.TotalShippingTaxExc.IsNegative() ||
		s.TotalShippingTaxExc.GreaterThan(s.TotalShipping) {
		return domain.NewDomainError(domain.ErrorCodeValidationAmountInvalid, "invalid shipping totals").
			WithDetail("total_shipping", s.TotalShipping.String()).
			WithDetail("total_shipping_tax_exc", s.TotalShippingTaxExc.String())
	}
	return nil
}

// asGatewayError makes sure callers see a GATEWAY_* or CONFIG_* code
func asGatewayError(err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.WrapError(domain.ErrorCodeGatewayError, "gateway call failed", err)
}

// newReference returns a 9 letter order reference
func newReference() string {
	id := uuid.New()
	b := make([]byte, referenceLength)
	for i := range b {
		b[i] = 'A' + id[i]%26
	}
	return string(b)
}
