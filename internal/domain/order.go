package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the local order record.
// Reference and CartID are fixed at creation; StatusID changes only through
// appended StatusHistoryEntry rows.
type Order struct {
	ID            uuid.UUID `json:"id"`
	Reference     string    `json:"reference"`
	CartID        string    `json:"cart_id"`
	PaymentModule string    `json:"payment_module"`
	GatewayCode   string    `json:"gateway_code"`
	StatusID      string    `json:"status_id"`
	Currency      string    `json:"currency"`
	AmountCents   int64     `json:"amount_cents"`
	TransactionID string    `json:"transaction_id,omitempty"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StatusHistoryEntry is one append-only order status transition
type StatusHistoryEntry struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	StatusID  string    `json:"status_id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// BelongsTo reports whether the order was paid through the given payment module
func (o *Order) BelongsTo(module string) bool {
	return o.PaymentModule == module
}
