// Package money converts host decimal amounts to gateway minor units and
// normalizes tax rates.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var hundred = decimal.NewFromInt(100)

// Money is an amount in minor units together with its ISO 4217 currency
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New builds Money from a decimal major-unit amount, validating the currency
func New(amount decimal.Decimal, code string) (Money, error) {
	unit, err := ParseCurrency(code)
	if err != nil {
		return Money{}, err
	}
	return Money{Amount: PriceToCents(amount), Currency: unit.String()}, nil
}

// PriceToCents converts a major-unit amount to minor units, rounding half away from zero
func PriceToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FloatToCents is PriceToCents for float inputs
func FloatToCents(amount float64) int64 {
	return PriceToCents(decimal.NewFromFloat(amount))
}

// ToMinor converts a major-unit amount to minor units without rounding.
// Used for back-computed tax exclusive unit prices.
func ToMinor(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred)
}

// CentsToDecimal converts minor units back to a major-unit decimal
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ParseCurrency validates an ISO 4217 currency code
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	return unit, nil
}
