package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1)

// RoundHalfDown rounds a value to the given number of decimal places,
// with ties rounding toward zero: 2.005 becomes 2.00, not 2.01. This
// matches the historical behavior of the stored data and is kept on
// purpose even though round-half-up is the more common rule.
func RoundHalfDown(d decimal.Decimal, places int32) decimal.Decimal {
	shifted := d.Abs().Shift(places)
	floor := shifted.Floor()
	rounded := floor
	if shifted.Sub(floor).GreaterThan(half) {
		rounded = floor.Add(decimal.New(1, 0))
	}
	rounded = rounded.Shift(-places)
	if d.Sign() < 0 {
		rounded = rounded.Neg()
	}
	return rounded
}

// ParseAmount parses a user-supplied amount string as an exact decimal.
// Amounts are parsed directly as decimals rather than through float64,
// so values like "2.005" reach the rounding rule unchanged.
// Unparseable or non-positive amounts report ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, d)
	}
	return RoundHalfDown(d, 2), nil
}
