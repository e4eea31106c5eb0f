package ports

import "context"

// OrderRef identifies a local order the way the host platform knows it
type OrderRef struct {
	Reference string `json:"reference"`
	CartID    string `json:"cart_id"`
}

// InvoiceEvent is sent when the host invoices an order
type InvoiceEvent struct {
	OrderRef
	InvoiceID string `json:"invoice_id"`
}

// StatusChangeEvent is sent when the host changes an order's status
type StatusChangeEvent struct {
	OrderRef
	NewStatus      string `json:"new_status"`
	TrackTraceCode string `json:"tracktrace_code,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	ShipDate       string `json:"ship_date,omitempty"`
}

// RefundEvent is sent when the host adds a credit slip
type RefundEvent struct {
	OrderRef
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateResult is the outcome of a side channel update
type UpdateResult string

const (
	UpdateSent    UpdateResult = "sent"
	UpdateSkipped UpdateResult = "skipped"
	UpdateFailed  UpdateResult = "failed"
)

// OrderUpdateService pushes host events to the gateway. Failures are logged
// and reported as UpdateFailed, never returned.
type OrderUpdateService interface {
	OnInvoiced(ctx context.Context, ev InvoiceEvent) UpdateResult
	OnStatusChanged(ctx context.Context, ev StatusChangeEvent) UpdateResult
	OnRefund(ctx context.Context, ev RefundEvent) UpdateResult
}
