// Package shoppingcart turns a host cart into the gateway's shopping_cart
// and checkout_options sections.
package shoppingcart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/checkout-bridge/internal/money"
)

// ShoppingCart is the shopping_cart section of an order request
type ShoppingCart struct {
	Items []Item `json:"items"`
}

// Item is a single line of the shopping cart.
// UnitPrice is tax exclusive, in minor units and unrounded; it is sent to the
// gateway in major units.
type Item struct {
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	UnitPrice        decimal.Decimal `json:"-"`
	Quantity         int             `json:"quantity"`
	MerchantItemID   string          `json:"merchant_item_id"`
	TaxTableSelector string          `json:"tax_table_selector"`
	TaxRate          decimal.Decimal `json:"-"`
	Weight           *Weight         `json:"weight,omitempty"`
}

// Weight of a cart item
type Weight struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// MarshalJSON renders unit_price in major units
func (i Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		UnitPrice json.Number `json:"unit_price"`
	}{
		alias:     alias(i),
		UnitPrice: json.Number(i.UnitPrice.Div(decimal.NewFromInt(100)).Truncate(10).String()),
	})
}

// LineTotal is the tax inclusive line amount in minor units, unrounded
func (i Item) LineTotal() decimal.Decimal {
	return money.IncludeTax(i.UnitPrice, i.TaxRate).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total returns the tax inclusive sum of all items in minor units
func (c ShoppingCart) Total() int64 {
	sum := decimal.Zero
	for _, item := range c.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum.Round(0).IntPart()
}

// CheckoutOptions is the checkout_options section of an order request
type CheckoutOptions struct {
	TaxTables TaxTables `json:"tax_tables"`
}

// TaxTables declares the tax rates referenced by the items' selectors
type TaxTables struct {
	Default   TaxTable   `json:"default"`
	Alternate []TaxTable `json:"alternate,omitempty"`
}

// TaxTable is a named tax rate. Rate is a fraction (0.21 for 21%).
type TaxTable struct {
	Name          string    `json:"name,omitempty"`
	ShippingTaxed bool      `json:"shipping_taxed,omitempty"`
	Standalone    bool      `json:"standalone,omitempty"`
	Rules         []TaxRule `json:"rules,omitempty"`
	Rate          float64   `json:"rate"`
}

// TaxRule is a single rule of an alternate tax table
type TaxRule struct {
	Rate float64 `json:"rate"`
}
