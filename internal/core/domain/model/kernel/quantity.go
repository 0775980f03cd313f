package kernel

import (
	"wastetrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Quantity is a value object representing a non-negative amount of material.
// It wraps github.com/shopspring/decimal so that mass bookkeeping never
// accumulates binary floating point error: a ledger that debits and credits
// the same amount must arrive back at exactly zero.
//
// Quantity is immutable; arithmetic methods return new values. The zero value
// is a valid zero quantity.
//
// Example usage:
//
//	collected, err := kernel.NewQuantityFromString("100.5")
//	if err != nil {
//	    // handle malformed amount
//	}
//	remaining, err := stored.Sub(collected) // fails if it would go negative
type Quantity struct {
	amount decimal.Decimal
}

// NewQuantity creates a Quantity from a decimal amount.
// Returns ValueIsOutOfRangeError if the amount is negative.
func NewQuantity(amount decimal.Decimal) (Quantity, error) {
	if amount.IsNegative() {
		return Quantity{}, errs.NewValueIsOutOfRangeError("quantity", amount.String(), "0", "+inf")
	}
	return Quantity{amount: amount}, nil
}

// NewQuantityFromString parses a Quantity from its decimal string representation.
func NewQuantityFromString(s string) (Quantity, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, errs.NewValueIsInvalidErrorWithCause("quantity", err)
	}
	return NewQuantity(amount)
}

// NewQuantityFromFloat creates a Quantity from a float64 amount.
// Intended for adapter boundaries; domain code should prefer decimal inputs.
func NewQuantityFromFloat(amount float64) (Quantity, error) {
	return NewQuantity(decimal.NewFromFloat(amount))
}

// ZeroQuantity returns the zero amount.
func ZeroQuantity() Quantity {
	return Quantity{amount: decimal.Zero}
}

// Add returns the sum of the two quantities.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{amount: q.amount.Add(other.amount)}
}

// Sub returns q minus other.
// Returns ValueIsOutOfRangeError if the result would be negative.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	result := q.amount.Sub(other.amount)
	if result.IsNegative() {
		return Quantity{}, errs.NewValueIsOutOfRangeError("quantity", result.String(), "0", "+inf")
	}
	return Quantity{amount: result}, nil
}

// IsZero reports whether the quantity is exactly zero.
func (q Quantity) IsZero() bool {
	return q.amount.IsZero()
}

// IsPositive reports whether the quantity is strictly greater than zero.
func (q Quantity) IsPositive() bool {
	return q.amount.IsPositive()
}

// LessThan reports whether q is strictly smaller than other.
func (q Quantity) LessThan(other Quantity) bool {
	return q.amount.LessThan(other.amount)
}

// IsEqual compares two quantities by numeric value, ignoring exponent representation.
func (q Quantity) IsEqual(other Quantity) bool {
	return q.amount.Equal(other.amount)
}

// Decimal returns the underlying decimal amount.
func (q Quantity) Decimal() decimal.Decimal {
	return q.amount
}

// String returns the decimal string representation of the amount.
func (q Quantity) String() string {
	return q.amount.String()
}
