package ports

import (
	"context"

	"github.com/google/uuid"

	adapterports "github.com/kevin07696/checkout-bridge/internal/adapters/ports"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest"
)

// InitiateRequest starts a checkout for a cart
type InitiateRequest struct {
	Cart       *domain.Cart
	Customer   *domain.Customer
	OptionCode string
	Client     orderrequest.ClientInfo

	GatewayInfo             map[string]string
	PaymentComponentPayload string
	TokenID                 string
	SaveToken               bool
}

// InitiateResult tells the host where to send the shopper
type InitiateResult struct {
	OrderID      string    // id the gateway knows the order by
	LocalOrderID uuid.UUID // local order row
	Reference    string    // empty unless orders are created before payment
	PaymentURL   string
	SessionID    string
}

// OrderState answers the callback/processorder polling pair
type OrderState struct {
	Exists      bool
	OrderID     string
	Status      string
	RedirectURL string
}

// CheckoutService initiates payments
type CheckoutService interface {
	// Initiate builds and dispatches the order request
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResult, error)

	// OrderExists reports whether the host can show the confirmation page.
	// orderKey is the gateway order id: a reference or a cart id.
	OrderExists(ctx context.Context, orderKey string) (*OrderState, error)

	// ComponentToken issues a payment component API token
	ComponentToken(ctx context.Context) (*adapterports.APIToken, error)

	// WalletSession proxies wallet merchant validation
	WalletSession(ctx context.Context, req *adapterports.WalletSessionRequest) (*adapterports.WalletSession, error)
}
