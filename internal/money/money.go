// Package money holds the decimal arithmetic for invoice amounts. All
// computation uses exact decimal values; binary floats never touch money.
package money

import "github.com/shopspring/decimal"

// Precision is the scale monetary values are rounded to.
const Precision = 2

// LineAmount computes quantity times unit price, rounded to Precision.
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(Precision)
}

// OptionalLineAmount computes a line amount for an optional currency price.
// A nil price yields nil.
func OptionalLineAmount(quantity decimal.Decimal, unitPrice *decimal.Decimal) *decimal.Decimal {
	if unitPrice == nil {
		return nil
	}
	amount := LineAmount(quantity, *unitPrice)
	return &amount
}

// Sum adds amounts without intermediate rounding.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total.Round(Precision)
}

// VAT computes the tax portion of a subtotal at the given rate (e.g. 0.18).
func VAT(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Round(Precision)
}

// Convert converts an XOF amount to EUR at the given XOF-per-EUR rate.
// A zero rate yields zero rather than dividing by it.
func Convert(amountXOF, xofPerEUR decimal.Decimal) decimal.Decimal {
	if xofPerEUR.IsZero() {
		return decimal.Zero
	}
	return amountXOF.DivRound(xofPerEUR, Precision)
}
