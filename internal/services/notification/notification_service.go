// Package notification reconciles local orders with the gateway when the
// gateway reports a transaction change.
package notification

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	adapterports "github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/services/ports"
	"github.com/kevin07696/checkout-bridge/pkg/observability"
)

const sourceNotification = "notification"

// Service implements ports.NotificationService.
// The notification body is never trusted: the transaction is always fetched
// from the gateway.
type Service struct {
	gateway    adapterports.GatewayAdapter
	orders     adapterports.OrderRepository
	mapper     *StatusMapper
	moduleName string
	logger     *zap.Logger
}

var _ ports.NotificationService = (*Service)(nil)

// NewService creates a new notification service
func NewService(
	gateway adapterports.GatewayAdapter,
	orders adapterports.OrderRepository,
	mapper *StatusMapper,
	moduleName string,
	logger *zap.Logger,
) *Service {
	return &Service{
		gateway:    gateway,
		orders:     orders,
		mapper:     mapper,
		moduleName: moduleName,
		logger:     logger,
	}
}

// Handle processes a notification for the gateway order id ref
func (s *Service) Handle(ctx context.Context, ref string) ports.NotificationOutcome {
	outcome := s.handle(ctx, ref)
	observability.RecordNotification(string(outcome))
	return outcome
}

func (s *Service) handle(ctx context.Context, ref string) ports.NotificationOutcome {
	if ref == "" {
		s.logger.Warn("Notification without transaction id")
		return ports.NotificationInvalid
	}

	found, err := s.orders.FindByGatewayReference(ctx, ref)
	if err != nil {
		s.logger.Error("Failed to look up orders for notification",
			zap.String("order_id", ref),
			zap.Error(err),
		)
		return ports.NotificationStoreError
	}
	if len(found) == 0 {
		s.logger.Info("Notification for unknown order", zap.String("order_id", ref))
		return ports.NotificationUnknownReference
	}

	owned := latestPerCart(lo.Filter(found, func(o *domain.Order, _ int) bool { return o.BelongsTo(s.moduleName) }))
	if len(owned) == 0 {
		s.logger.Info("Notification for order of another payment module",
			zap.String("order_id", ref),
			zap.String("payment_module", found[0].PaymentModule),
		)
		return ports.NotificationForeignModule
	}

	tx, err := s.gateway.GetOrder(ctx, ref)
	if err != nil {
		s.logger.Error("Failed to fetch transaction for notification",
			zap.String("order_id", ref),
			zap.Error(err),
		)
		return ports.NotificationGatewayError
	}

	status := s.mapper.Map(tx.Status)
	applied := 0
	for _, order := range owned {
		if err := s.orders.AttachTransaction(ctx, order.ID, tx.TransactionID.String(), tx.PaymentDetails.Type); err != nil {
			s.logger.Warn("Failed to attach transaction to order",
				zap.String("local_order_id", order.ID.String()),
				zap.Error(err),
			)
		}

		ok, err := s.orders.TransitionStatus(ctx, order.ID, status, sourceNotification)
		if err != nil {
			s.logger.Error("Failed to update order status",
				zap.String("local_order_id", order.ID.String()),
				zap.String("status", status),
				zap.Error(err),
			)
			return ports.NotificationStoreError
		}
		observability.RecordStatusTransition(status, ok)
		if ok {
			applied++
		}
	}

	s.logger.Info("Notification processed",
		zap.String("order_id", ref),
		zap.String("transaction_status", tx.Status),
		zap.String("status", status),
		zap.Int("orders", len(owned)),
		zap.Int("applied", applied),
	)

	if applied == 0 {
		return ports.NotificationDuplicate
	}
	return ports.NotificationProcessed
}

// latestPerCart keeps the newest order of every cart. Older orders of a cart
// belong to attempts the gateway no longer reports on.
func latestPerCart(orders []*domain.Order) []*domain.Order {
	latest := lo.KeyBy(orders, func(o *domain.Order) string { return o.CartID })
	return lo.Filter(orders, func(o *domain.Order, _ int) bool { return latest[o.CartID] == o })
}
