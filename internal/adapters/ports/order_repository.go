package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/kevin07696/checkout-bridge/internal/domain"
)

// OrderRepository stores local orders and their status history.
// Lookups that find nothing return domain.ErrOrderNotFound.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// GetByCartID returns the most recent order for a cart
	GetByCartID(ctx context.Context, cartID string) (*domain.Order, error)

	// FindByGatewayReference returns every order whose reference or cart id
	// equals ref. An empty result is not an error.
	FindByGatewayReference(ctx context.Context, ref string) ([]*domain.Order, error)

	// TransitionStatus appends a history entry and updates the current status
	// unless the order already has that status. The check and the write
	// happen atomically. Reports whether a transition was applied.
	TransitionStatus(ctx context.Context, orderID uuid.UUID, statusID, source string) (bool, error)

	// RefreshAttempt overwrites gateway code, currency and amount of an order
	// that is paid again under the same gateway order id
	RefreshAttempt(ctx context.Context, orderID uuid.UUID, gatewayCode, currency string, amountCents int64) error

	// AttachTransaction stores the gateway transaction id and payment method
	AttachTransaction(ctx context.Context, orderID uuid.UUID, transactionID, paymentMethod string) error

	// History returns the status history, oldest first
	History(ctx context.Context, orderID uuid.UUID) ([]domain.StatusHistoryEntry, error)
}
