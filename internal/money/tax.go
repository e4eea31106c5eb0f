package money

import "github.com/shopspring/decimal"

// allowedTaxRates are the rates one gateway accepts without re-validating
// the line totals itself
var allowedTaxRates = []decimal.Decimal{
	decimal.NewFromInt(0),
	decimal.NewFromInt(5),
	decimal.NewFromInt(6),
	decimal.NewFromInt(7),
	decimal.NewFromInt(9),
	decimal.NewFromInt(16),
	decimal.NewFromInt(19),
	decimal.NewFromInt(20),
	decimal.NewFromInt(21),
}

// taxSnapThreshold is inclusive: 19.95 snaps to 20
var taxSnapThreshold = decimal.NewFromFloat(0.05)

// RoundTaxRate snaps rate to the nearest allowed rate when it is within
// 0.05 of it, otherwise the rate is returned unchanged
func RoundTaxRate(rate decimal.Decimal) decimal.Decimal {
	for _, allowed := range allowedTaxRates {
		if rate.Sub(allowed).Abs().LessThanOrEqual(taxSnapThreshold) {
			return allowed
		}
	}
	return rate
}

// ExcludeTax back-computes a tax exclusive amount: amount * 100 / (100 + rate).
// Rates of -100 or below leave amount unchanged.
func ExcludeTax(amount, rate decimal.Decimal) decimal.Decimal {
	divisor := hundred.Add(rate)
	if !divisor.IsPositive() {
		return amount
	}
	return amount.Mul(hundred).Div(divisor)
}

// IncludeTax applies rate (a percentage) to amount
func IncludeTax(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred.Add(rate)).Div(hundred)
}

// RateFromAmounts computes the percentage rate that taxAmount represents on
// top of (gross - taxAmount). A zero net amount yields a zero rate.
func RateFromAmounts(taxAmount, gross decimal.Decimal) decimal.Decimal {
	net := gross.Sub(taxAmount)
	if net.IsZero() {
		return decimal.Zero
	}
	return taxAmount.Mul(hundred).Div(net)
}
