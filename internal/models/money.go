package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToCents converts a currency amount to integer cents, rounding half away
// from zero at two decimal places.
func ToCents(d decimal.Decimal) int64 {
	return d.Round(2).Mul(hundred).IntPart()
}

// FromCents converts integer cents back to a two-place decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
