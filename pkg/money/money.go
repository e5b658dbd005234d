package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts are ringgit with two decimal places. Everything that leaves this
// package is already rounded; callers never deal in fractional sen.

var zero = decimal.Zero

// Zero returns the zero amount.
func Zero() decimal.Decimal {
	return zero
}

// Round normalizes an amount to two decimal places (banker-free half-up).
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FromFloat converts a float price into a two-decimal amount.
func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(2)
}

// Parse converts a decimal string like "8.90" into an amount.
func Parse(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return zero, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return d.Round(2), nil
}

// ClampNonNegative floors an amount at zero.
func ClampNonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return zero
	}
	return amount
}

// MulQty multiplies a unit price by an integer quantity.
func MulQty(unitPrice decimal.Decimal, qty int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

// FormatRM renders an amount the way the storefront shows prices.
func FormatRM(amount decimal.Decimal) string {
	return "RM " + amount.StringFixed(2)
}
