package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceToCents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "positive", input: "34.75", want: 3475},
		{name: "zero", input: "0.00", want: 0},
		{name: "negative", input: "-15.75", want: -1575},
		{name: "half rounds away from zero", input: "0.125", want: 13},
		{name: "negative half rounds away from zero", input: "-0.125", want: -13},
		{name: "many decimals", input: "19.999999", want: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceToCents(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestFloatToCents(t *testing.T) {
	assert.Equal(t, int64(3475), FloatToCents(34.75))
	assert.Equal(t, int64(0), FloatToCents(0))
	assert.Equal(t, int64(-1575), FloatToCents(-15.75))
	// binary float artefacts must not leak into minor units
	assert.Equal(t, int64(30), FloatToCents(0.1+0.2))
}

func TestCentsToDecimal(t *testing.T) {
	assert.True(t, decimal.RequireFromString("34.75").Equal(CentsToDecimal(3475)))
	assert.True(t, decimal.RequireFromString("-0.01").Equal(CentsToDecimal(-1)))
}

func TestNew(t *testing.T) {
	m, err := New(decimal.RequireFromString("10.50"), "eur")
	require.NoError(t, err)
	assert.Equal(t, Money{Amount: 1050, Currency: "EUR"}, m)

	_, err = New(decimal.RequireFromString("10.50"), "EURO")
	require.Error(t, err)
}

func TestRoundTaxRate(t *testing.T) {
	tests := []struct {
		rate string
		want string
	}{
		{rate: "19.97", want: "20"},
		{rate: "19.90", want: "19.90"},
		{rate: "19.95", want: "20"},
		{rate: "20.05", want: "20"},
		{rate: "20.06", want: "20.06"},
		{rate: "0.04", want: "0"},
		{rate: "8.99", want: "9"},
		{rate: "12.5", want: "12.5"},
		{rate: "21", want: "21"},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			got := RoundTaxRate(decimal.RequireFromString(tt.rate))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestExcludeTax(t *testing.T) {
	got := ExcludeTax(decimal.RequireFromString("121"), decimal.NewFromInt(21))
	assert.True(t, decimal.NewFromInt(100).Equal(got))

	got = ExcludeTax(decimal.RequireFromString("10"), decimal.Zero)
	assert.True(t, decimal.NewFromInt(10).Equal(got))

	assert.NotPanics(t, func() {
		got = ExcludeTax(decimal.RequireFromString("12"), decimal.NewFromInt(-100))
	})
	assert.True(t, decimal.NewFromInt(12).Equal(got))
}

func TestRateFromAmounts(t *testing.T) {
	got := RateFromAmounts(decimal.RequireFromString("1.05"), decimal.RequireFromString("6.05"))
	assert.True(t, decimal.NewFromInt(21).Equal(got))

	assert.True(t, RateFromAmounts(decimal.Zero, decimal.Zero).IsZero())
	assert.True(t, RateFromAmounts(decimal.RequireFromString("1"), decimal.RequireFromString("1")).IsZero())
}
