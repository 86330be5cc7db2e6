package models

import (
	"github.com/shopspring/decimal"
)

// Price is decimal odds stored as fixed-point ticks (hundredths), so that
// price levels can be used as exact map/tree keys without float equality
// pitfalls. A Price of 250 represents decimal odds of 2.50.
type Price int64

const priceScale = 100

// NewPriceFromDecimal converts caller-facing decimal odds into fixed-point
// ticks, rounding to 2 decimal places the way the virtual-order synthesis
// math in pkg/matchingengine rounds a VMO price.
func NewPriceFromDecimal(d decimal.Decimal) Price {
	scaled := d.Mul(decimal.NewFromInt(priceScale)).Round(0)
	return Price(scaled.IntPart())
}

// NewPriceFromFloat converts a float64 decimal-odds value into ticks.
func NewPriceFromFloat(f float64) Price {
	return NewPriceFromDecimal(decimal.NewFromFloat(f))
}

// Decimal returns the price as a shopspring/decimal value at 2-decimal
// precision, the vocabulary the public API boundary speaks in.
func (p Price) Decimal() decimal.Decimal {
	return decimal.New(int64(p), 0).Div(decimal.NewFromInt(priceScale))
}

// Float64 returns the price as a float64, for use only in implied-probability
// arithmetic where shopspring/decimal has no closed-form inverse.
func (p Price) Float64() float64 {
	return float64(p) / priceScale
}

// String renders the price the way every caller-facing log line and CLI
// event displays it: as a decimal odds value at 2-decimal precision.
func (p Price) String() string {
	return p.Decimal().StringFixed(2)
}
