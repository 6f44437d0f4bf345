package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnitsPerUnit is the number of minor units (cents) in one currency unit.
const MinorUnitsPerUnit = 100

// roundingTolerance is the largest fractional cent a boundary amount may
// carry and still be accepted as representable. Anything beyond this is a
// caller error, not a rounding artifact.
var roundingTolerance = decimal.New(1, -6) // 0.000001 cents

var (
	ErrInvalidAmount = errors.New("amount must be a positive number of whole minor units")
)

// Money is an exact currency value counted in minor units (cents).
// All ledger arithmetic happens on this integer type; decimal values exist
// only at the API boundary and are converted exactly once.
type Money int64

// Parse converts a decimal string from the API boundary into Money.
// The value must be strictly positive and must round to a whole number of
// minor units within the configured tolerance.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts an already-parsed decimal amount into Money.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidAmount)
	}

	cents := d.Mul(decimal.NewFromInt(MinorUnitsPerUnit))
	rounded := cents.Round(0)
	if cents.Sub(rounded).Abs().GreaterThan(roundingTolerance) {
		return 0, fmt.Errorf("%w: amount has sub-cent precision", ErrInvalidAmount)
	}

	if !rounded.IsInteger() || !rounded.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
	}

	return Money(rounded.IntPart()), nil
}

// FromMinorUnits wraps a raw minor-unit count.
func FromMinorUnits(v int64) Money {
	return Money(v)
}

// Add combines two amounts. Integer addition keeps the exact-sum property:
// N deposits of v always total exactly N*v.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub subtracts an amount.
func (m Money) Sub(other Money) Money {
	return m - other
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m > 0
}

// MinorUnits returns the raw minor-unit count for persistence.
func (m Money) MinorUnits() int64 {
	return int64(m)
}

// Decimal returns the exact decimal representation in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount in major units with two fractional digits,
// e.g. 1234 -> "12.34".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
