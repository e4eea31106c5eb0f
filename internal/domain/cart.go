package domain

import (
	"github.com/shopspring/decimal"
)

// RoundingMode mirrors the host platform's price rounding setting
type RoundingMode string

const (
	RoundPerItem  RoundingMode = "item"  // round every unit price
	RoundPerLine  RoundingMode = "line"  // round every line total
	RoundPerTotal RoundingMode = "total" // round the order total only
)

// Cart is the host platform's pre-order basket as received at the boundary.
// It is read-only for this service.
type Cart struct {
	ID              string        `json:"id"`
	CustomerID      string        `json:"customer_id"`
	Currency        string        `json:"currency"`
	LanguageISO     string        `json:"language_iso"`
	InvoiceAddress  *Address      `json:"invoice_address,omitempty"`
	DeliveryAddress *Address      `json:"delivery_address,omitempty"`
	Products        []CartProduct `json:"products"`
	Summary         CartSummary   `json:"summary"`
	IsVirtual       bool          `json:"is_virtual"`
	RoundingMode    RoundingMode  `json:"rounding_mode"`
	GiftMessage     string        `json:"gift_message,omitempty"`
}

// CartProduct is one product line of a cart.
// Price is tax exclusive, PriceWithTax tax inclusive, both per unit.
type CartProduct struct {
	ProductID    string          `json:"product_id"`
	VariantID    string          `json:"variant_id,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	PriceWithTax decimal.Decimal `json:"price_with_tax"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Weight       decimal.Decimal `json:"weight"`
	WeightUnit   string          `json:"weight_unit,omitempty"`
	IsGift       bool            `json:"is_gift"`
}

// CartSummary carries the host-computed totals of a cart
type CartSummary struct {
	OrderTotal          decimal.Decimal `json:"order_total"`
	TotalShipping       decimal.Decimal `json:"total_shipping"`
	TotalShippingTaxExc decimal.Decimal `json:"total_shipping_tax_exc"`
	TotalDiscounts      decimal.Decimal `json:"total_discounts"`
	TotalWrapping       decimal.Decimal `json:"total_wrapping"`
	CarrierName         string          `json:"carrier_name,omitempty"`
}

// ShippingTax returns the tax part of the shipping cost
func (s CartSummary) ShippingTax() decimal.Decimal {
	return s.TotalShipping.Sub(s.TotalShippingTaxExc)
}

// HasDelivery reports whether the cart ships physical goods to an address
func (c *Cart) HasDelivery() bool {
	return !c.IsVirtual && c.DeliveryAddress != nil
}
