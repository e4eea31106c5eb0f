// Package orderupdate pushes host platform events (invoices, shipments,
// refunds) to the gateway after the payment completed.
package orderupdate

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	adapterports "github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/config"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/services/ports"
	"github.com/kevin07696/checkout-bridge/pkg/observability"
	"github.com/kevin07696/checkout-bridge/pkg/resilience"
)

const (
	kindInvoice  = "invoice"
	kindShipment = "shipment"
	kindRefund   = "refund"

	gatewayStatusShipped = "shipped"
)

// Service implements ports.OrderUpdateService
type Service struct {
	gateway  adapterports.GatewayAdapter
	orders   adapterports.OrderRepository
	checkout config.CheckoutConfig
	status   config.StatusConfig
	timeouts *resilience.TimeoutConfig
	logger   *zap.Logger
}

var _ ports.OrderUpdateService = (*Service)(nil)

// NewService creates a new order update service
func NewService(
	gateway adapterports.GatewayAdapter,
	orders adapterports.OrderRepository,
	checkout config.CheckoutConfig,
	status config.StatusConfig,
	timeouts *resilience.TimeoutConfig,
	logger *zap.Logger,
) *Service {
	if timeouts == nil {
		timeouts = resilience.DefaultTimeoutConfig()
	}
	return &Service{
		gateway:  gateway,
		orders:   orders,
		checkout: checkout,
		status:   status,
		timeouts: timeouts,
		logger:   logger,
	}
}

// OnInvoiced sends the host invoice id to the gateway
func (s *Service) OnInvoiced(ctx context.Context, ev ports.InvoiceEvent) ports.UpdateResult {
	if ev.InvoiceID == "" {
		return s.done(kindInvoice, ports.UpdateSkipped)
	}
	return s.push(ctx, kindInvoice, ev.OrderRef, func(ctx context.Context, key string, _ *domain.Order) error {
		return s.gateway.UpdateOrder(ctx, key, &adapterports.UpdateRequest{InvoiceID: ev.InvoiceID})
	})
}

// OnStatusChanged sends shipment details when the order moved to the
// configured shipped status. Other status changes are not forwarded.
func (s *Service) OnStatusChanged(ctx context.Context, ev ports.StatusChangeEvent) ports.UpdateResult {
	if s.status.ShippedTriggerStatus == "" || ev.NewStatus != s.status.ShippedTriggerStatus {
		return s.done(kindShipment, ports.UpdateSkipped)
	}
	return s.push(ctx, kindShipment, ev.OrderRef, func(ctx context.Context, key string, _ *domain.Order) error {
		return s.gateway.UpdateOrder(ctx, key, &adapterports.UpdateRequest{
			Status:         gatewayStatusShipped,
			TrackTraceCode: ev.TrackTraceCode,
			Carrier:        ev.Carrier,
			ShipDate:       ev.ShipDate,
		})
	})
}

// OnRefund refunds the credit slip amount at the gateway
func (s *Service) OnRefund(ctx context.Context, ev ports.RefundEvent) ports.UpdateResult {
	if ev.AmountCents <= 0 {
		s.logger.Warn("Ignoring refund without a positive amount",
			zap.String("reference", ev.Reference),
			zap.String("cart_id", ev.CartID),
			zap.Int64("amount", ev.AmountCents),
		)
		return s.done(kindRefund, ports.UpdateSkipped)
	}
	return s.push(ctx, kindRefund, ev.OrderRef, func(ctx context.Context, key string, order *domain.Order) error {
		currency := lo.CoalesceOrEmpty(strings.ToUpper(ev.Currency), order.Currency)
		resp, err := s.gateway.Refund(ctx, key, &adapterports.RefundRequest{
			Currency:    currency,
			Amount:      ev.AmountCents,
			Description: ev.Description,
		})
		if err != nil {
			return err
		}
		s.logger.Info("Refund registered",
			zap.String("order_id", key),
			zap.String("refund_id", resp.RefundID.String()),
			zap.Int64("amount", ev.AmountCents),
			zap.String("currency", currency),
		)
		return nil
	})
}

// push resolves the order, then runs send on a context detached from the
// host request
func (s *Service) push(
	ctx context.Context,
	kind string,
	ref ports.OrderRef,
	send func(ctx context.Context, key string, order *domain.Order) error,
) ports.UpdateResult {
	order, err := s.resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.Debug("Side channel event for unknown or foreign order",
				zap.String("kind", kind),
				zap.String("reference", ref.Reference),
				zap.String("cart_id", ref.CartID),
			)
			return s.done(kind, ports.UpdateSkipped)
		}
		s.logger.Error("Failed to resolve order for side channel event",
			zap.String("kind", kind),
			zap.String("reference", ref.Reference),
			zap.String("cart_id", ref.CartID),
			zap.Error(err),
		)
		return s.done(kind, ports.UpdateFailed)
	}

	key := s.gatewayKey(order)
	sendCtx, cancel := s.timeouts.SideChannelContext(ctx)
	defer cancel()

	if err := send(sendCtx, key, order); err != nil {
		s.logger.Error("Side channel update failed",
			zap.String("kind", kind),
			zap.String("order_id", key),
			zap.String("error_code", string(domain.GetErrorCode(err))),
			zap.Error(err),
		)
		return s.done(kind, ports.UpdateFailed)
	}

	s.logger.Info("Side channel update sent",
		zap.String("kind", kind),
		zap.String("order_id", key),
	)
	return s.done(kind, ports.UpdateSent)
}

// resolve finds the module's order by reference first, then by cart id.
// Orders of other payment modules resolve to ErrOrderNotFound.
func (s *Service) resolve(ctx context.Context, ref ports.OrderRef) (*domain.Order, error) {
	if ref.Reference != "" {
		found, err := s.orders.FindByGatewayReference(ctx, ref.Reference)
		if err != nil {
			return nil, err
		}
		order, ok := lo.Find(found, func(o *domain.Order) bool {
			return o.Reference == ref.Reference && o.BelongsTo(s.checkout.ModuleName)
		})
		if ok {
			return order, nil
		}
	}

	if ref.CartID == "" {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.orders.GetByCartID(ctx, ref.CartID)
	if err != nil {
		return nil, err
	}
	if !order.BelongsTo(s.checkout.ModuleName) {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) gatewayKey(order *domain.Order) string {
	if s.checkout.CreateOrderBeforePayment && order.Reference != "" {
		return order.Reference
	}
	return order.CartID
}

func (s *Service) done(kind string, result ports.UpdateResult) ports.UpdateResult {
	observability.RecordSideChannelUpdate(kind, string(result))
	return result
}
