package shoppingcart

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/kevin07696/checkout-bridge/internal/domain"
	"github.com/kevin07696/checkout-bridge/internal/money"
)

const (
	ShippingItemID = "msp-shipping"
	DiscountItemID = "discount"
	WrappingItemID = "wrapping"

	defaultWeightUnit = "KG"
)

// Options controls line-item assembly
type Options struct {
	// SnapTaxRates snaps every rate onto the gateway's fixed rate set
	SnapTaxRates bool
	ShippingName string
	DiscountName string
	WrappingName string
}

// Assembler produces zero or more items from a cart
type Assembler func(cart *domain.Cart, opts Options) []Item

// assemblers run in this order; items keep it in the request
var assemblers = []Assembler{
	CartItems,
	ShippingItem,
	DiscountItem,
	WrappingItem,
}

// Assemble builds the shopping cart and its tax tables
func Assemble(cart *domain.Cart, opts Options) (ShoppingCart, CheckoutOptions) {
	items := lo.FlatMap(assemblers, func(a Assembler, _ int) []Item {
		return a(cart, opts)
	})
	return ShoppingCart{Items: items}, CheckoutOptions{TaxTables: taxTables(items)}
}

// CartItems emits one item per product line
func CartItems(cart *domain.Cart, opts Options) []Item {
	lines := lo.Filter(cart.Products, func(p domain.CartProduct, _ int) bool {
		return p.Quantity > 0
	})
	return lo.Map(lines, func(p domain.CartProduct, _ int) Item {
		return cartItem(p, cart.RoundingMode, opts)
	})
}

func cartItem(p domain.CartProduct, mode domain.RoundingMode, opts Options) Item {
	rate := p.TaxRate
	// host applied no tax despite a configured rate
	if p.PriceWithTax.Equal(p.Price) {
		rate = decimal.Zero
	}
	if opts.SnapTaxRates {
		rate = money.RoundTaxRate(rate)
	}

	unitPrice := decimal.Zero
	if !p.IsGift {
		gross := p.PriceWithTax
		if mode == domain.RoundPerLine {
			qty := decimal.NewFromInt(int64(p.Quantity))
			gross = gross.Mul(qty).Round(2).Div(qty)
		}
		unitPrice = money.ToMinor(money.ExcludeTax(gross, rate))
	}

	item := Item{
		Name:             p.Name,
		Description:      p.Description,
		UnitPrice:        unitPrice,
		Quantity:         p.Quantity,
		MerchantItemID:   MerchantItemID(p),
		TaxTableSelector: selector(rate),
		TaxRate:          rate,
	}
	if p.Weight.IsPositive() {
		unit := strings.ToUpper(p.WeightUnit)
		if unit == "" {
			unit = defaultWeightUnit
		}
		item.Weight = &Weight{Unit: unit, Value: p.Weight.InexactFloat64()}
	}
	return item
}

// MerchantItemID is product[-variant][-gift]. A gift copy of a product must
// not share its id with the paid line.
func MerchantItemID(p domain.CartProduct) string {
	id := p.ProductID
	if p.VariantID != "" && p.VariantID != "0" {
		id += "-" + p.VariantID
	}
	if p.IsGift {
		id += "-gift"
	}
	return id
}

// ShippingItem emits the shipping line for carts that ship
func ShippingItem(cart *domain.Cart, opts Options) []Item {
	if cart.IsVirtual {
		return nil
	}

	s := cart.Summary
	rate := money.RateFromAmounts(s.ShippingTax(), s.TotalShipping)
	if opts.SnapTaxRates {
		rate = money.RoundTaxRate(rate)
	}

	name := opts.ShippingName
	if name == "" {
		name = lo.Ternary(s.CarrierName != "", s.CarrierName, "Shipping")
	}

	return []Item{{
		Name:             name,
		Description:      name,
		UnitPrice:        money.ToMinor(money.ExcludeTax(s.TotalShipping, rate)),
		Quantity:         1,
		MerchantItemID:   ShippingItemID,
		TaxTableSelector: selector(rate),
		TaxRate:          rate,
	}}
}

// DiscountItem emits a single negative untaxed line for all cart discounts
func DiscountItem(cart *domain.Cart, opts Options) []Item {
	if !cart.Summary.TotalDiscounts.IsPositive() {
		return nil
	}
	name := lo.Ternary(opts.DiscountName != "", opts.DiscountName, "Discount")
	return []Item{untaxed(name, DiscountItemID, cart.Summary.TotalDiscounts.Neg())}
}

// WrappingItem emits a single untaxed line for gift wrapping
func WrappingItem(cart *domain.Cart, opts Options) []Item {
	if !cart.Summary.TotalWrapping.IsPositive() {
		return nil
	}
	name := lo.Ternary(opts.WrappingName != "", opts.WrappingName, "Gift wrapping")
	item := untaxed(name, WrappingItemID, cart.Summary.TotalWrapping)
	item.Description = cart.GiftMessage
	return []Item{item}
}

func untaxed(name, id string, amount decimal.Decimal) Item {
	return Item{
		Name:             name,
		UnitPrice:        money.ToMinor(amount),
		Quantity:         1,
		MerchantItemID:   id,
		TaxTableSelector: selector(decimal.Zero),
		TaxRate:          decimal.Zero,
	}
}

func selector(rate decimal.Decimal) string {
	return rate.String()
}

// taxTables declares one alternate table per distinct rate, in first-seen order
func taxTables(items []Item) TaxTables {
	rated := lo.UniqBy(items, func(i Item) string { return i.TaxTableSelector })
	return TaxTables{
		Default: TaxTable{ShippingTaxed: true, Rate: 0},
		Alternate: lo.Map(rated, func(i Item, _ int) TaxTable {
			return TaxTable{
				Name:       i.TaxTableSelector,
				Standalone: true,
				Rules:      []TaxRule{{Rate: i.TaxRate.Div(decimal.NewFromInt(100)).InexactFloat64()}},
			}
		}),
	}
}
