package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineAmountExactDecimal(t *testing.T) {
	// 2.5 x 1000.00 XOF must be exactly 2500.00, no binary rounding.
	amount := LineAmount(dec("2.5"), dec("1000.00"))
	assert.True(t, amount.Equal(dec("2500.00")), "got %s", amount)
}

func TestLineAmountRoundsToTwoPlaces(t *testing.T) {
	amount := LineAmount(dec("3"), dec("0.335"))
	assert.Equal(t, "1.01", amount.StringFixed(2))
}

func TestLineAmountFloatTrap(t *testing.T) {
	// 0.1 + 0.2 style cases stay exact in decimal space.
	amount := LineAmount(dec("0.1"), dec("3"))
	assert.True(t, amount.Equal(dec("0.3")))
}

func TestOptionalLineAmount(t *testing.T) {
	assert.Nil(t, OptionalLineAmount(dec("2"), nil))

	price := dec("152.45")
	amount := OptionalLineAmount(dec("2"), &price)
	assert.NotNil(t, amount)
	assert.True(t, amount.Equal(dec("304.90")))
}

func TestSum(t *testing.T) {
	total := Sum(dec("2500.00"), dec("304.90"), dec("0.10"))
	assert.True(t, total.Equal(dec("2805.00")))
	assert.True(t, Sum().IsZero())
}

func TestVAT(t *testing.T) {
	vat := VAT(dec("10000"), dec("0.18"))
	assert.True(t, vat.Equal(dec("1800")))
}

func TestConvert(t *testing.T) {
	eur := Convert(dec("655957"), dec("655.957"))
	assert.True(t, eur.Equal(dec("1000.00")), "got %s", eur)

	assert.True(t, Convert(dec("100"), decimal.Zero).IsZero())
}
