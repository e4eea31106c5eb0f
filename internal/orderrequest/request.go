// Package orderrequest assembles the order request sent to the gateway when
// a shopper starts a payment.
package orderrequest

import (
	"github.com/kevin07696/checkout-bridge/internal/address"
	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/orderrequest/shoppingcart"
)

// OrderRequest is the gateway's order creation payload.
// Steps never modify a section in place; they replace it.
type OrderRequest struct {
	Type            domain.TransactionType        `json:"type"`
	OrderID         string                        `json:"order_id"`
	Gateway         string                        `json:"gateway"`
	Currency        string                        `json:"currency"`
	Amount          int64                         `json:"amount"`
	Description     string                        `json:"description,omitempty"`
	Customer        *Customer                     `json:"customer,omitempty"`
	Delivery        *address.Block                `json:"delivery,omitempty"`
	ShoppingCart    *shoppingcart.ShoppingCart    `json:"shopping_cart,omitempty"`
	CheckoutOptions *shoppingcart.CheckoutOptions `json:"checkout_options,omitempty"`
	PaymentOptions  *PaymentOptions               `json:"payment_options,omitempty"`
	Plugin          *Plugin                       `json:"plugin,omitempty"`
	RecurringModel  string                        `json:"recurring_model,omitempty"`
	RecurringID     string                        `json:"recurring_id,omitempty"`
	PaymentData     *PaymentData                  `json:"payment_data,omitempty"`
	SecondChance    *SecondChance                 `json:"second_chance,omitempty"`
	DaysActive      int                           `json:"days_active,omitempty"`
	SecondsActive   int                           `json:"seconds_active,omitempty"`
	GatewayInfo     map[string]string             `json:"gateway_info,omitempty"`
}

// Customer is the customer section: the invoice address plus shopper details
type Customer struct {
	address.Block
	Locale      string `json:"locale"`
	Email       string `json:"email,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Birthday    string `json:"birthday,omitempty"`
	Gender      string `json:"gender,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	ForwardedIP string `json:"forwarded_ip,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	UserAgent   string `json:"user_agent,omitempty"`
}

// PaymentOptions holds the URLs the gateway calls back or redirects to
type PaymentOptions struct {
	NotificationURL    string `json:"notification_url"`
	NotificationMethod string `json:"notification_method"`
	RedirectURL        string `json:"redirect_url"`
	CancelURL          string `json:"cancel_url"`
	CloseWindow        bool   `json:"close_window"`
}

// Plugin identifies the integration to the gateway
type Plugin struct {
	Shop          string `json:"shop"`
	ShopVersion   string `json:"shop_version"`
	PluginVersion string `json:"plugin_version"`
	Partner       string `json:"partner,omitempty"`
	ShopRootURL   string `json:"shop_root_url,omitempty"`
}

// PaymentData carries the encrypted payload of an embedded payment component
type PaymentData struct {
	Payload string `json:"payload"`
}

// SecondChance controls the gateway's reminder email for abandoned payments
type SecondChance struct {
	SendEmail bool `json:"send_email"`
}

// ClientInfo describes the shopper's browser
type ClientInfo struct {
	IPAddress   string
	ForwardedIP string
	UserAgent   string
	Referrer    string
}

// Input is everything a build step may read.
// Order is nil when the local order is only created after payment.
type Input struct {
	Cart     *domain.Cart
	Customer *domain.Customer
	Option   domain.PaymentOption
	Order    *domain.Order
	Client   ClientInfo

	// shopper supplied values for the option's gateway_info fields
	GatewayInfo map[string]string
	// encrypted card data from a payment component
	PaymentComponentPayload string
	// stored payment token to charge, or SaveToken to store a new one
	TokenID   string
	SaveToken bool
}

// OrderKey is the id the gateway knows the order by: the order reference when
// an order exists, otherwise the cart id
func (in Input) OrderKey() string {
	if in.Order != nil && in.Order.Reference != "" {
		return in.Order.Reference
	}
	return in.Cart.ID
}
