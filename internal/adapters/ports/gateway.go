package ports

import (
	"context"
	"encoding/json"

	"github.com/kevin07696/checkout-bridge/internal/orderrequest"
)

// TransactionResponse is returned when an order is created at the gateway
type TransactionResponse struct {
	OrderID    string `json:"order_id"`
	PaymentURL string `json:"payment_url,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
}

// Transaction is the gateway's view of an order
type Transaction struct {
	OrderID         string         `json:"order_id"`
	TransactionID   json.Number    `json:"transaction_id"`
	Status          string         `json:"status"`
	FinancialStatus string         `json:"financial_status,omitempty"`
	Amount          int64          `json:"amount"`
	Currency        string         `json:"currency"`
	PaymentDetails  PaymentDetails `json:"payment_details"`
}

// PaymentDetails describes how a transaction was paid
type PaymentDetails struct {
	Type        string `json:"type"`
	RecurringID string `json:"recurring_id,omitempty"`
}

// UpdateRequest updates an existing gateway order (invoice or shipment)
type UpdateRequest struct {
	Status         string `json:"status,omitempty"`
	InvoiceID      string `json:"invoice_id,omitempty"`
	TrackTraceCode string `json:"tracktrace_code,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	ShipDate       string `json:"ship_date,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// RefundRequest refunds (part of) an order
type RefundRequest struct {
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
}

// RefundResponse identifies the refund transaction
type RefundResponse struct {
	TransactionID json.Number `json:"transaction_id"`
	RefundID      json.Number `json:"refund_id"`
}

// WalletSessionRequest is a wallet merchant validation request from the browser
type WalletSessionRequest struct {
	OriginDomain  string `json:"origin_domain"`
	ValidationURL string `json:"validation_url"`
}

// WalletSession is the opaque merchant session handed back to the browser
type WalletSession struct {
	Session string `json:"session"`
}

// APIToken is a short lived token for embedded payment components
type APIToken struct {
	APIToken string `json:"api_token"`
}

// GatewayAdapter is the port to the payment gateway's REST API
type GatewayAdapter interface {
	// CreateOrder registers the order and returns the payment URL. Never retried.
	CreateOrder(ctx context.Context, req *orderrequest.OrderRequest) (*TransactionResponse, error)

	// GetOrder fetches the current transaction state
	GetOrder(ctx context.Context, orderID string) (*Transaction, error)

	// UpdateOrder pushes invoice or shipment details
	UpdateOrder(ctx context.Context, orderID string, req *UpdateRequest) error

	// Refund refunds the given amount of an order
	Refund(ctx context.Context, orderID string, req *RefundRequest) (*RefundResponse, error)

	// CreateWalletSession proxies wallet merchant validation
	CreateWalletSession(ctx context.Context, req *WalletSessionRequest) (*WalletSession, error)

	// GetAPIToken issues a payment component token
	GetAPIToken(ctx context.Context) (*APIToken, error)
}
