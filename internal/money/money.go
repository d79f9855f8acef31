// Package money holds the fixed-point helpers shared by the ledger.
// All amounts are shopspring decimals held at a scale of two decimal
// places (the minor unit); binary floating point never appears.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places of the minor unit.
const Scale int32 = 2

// MaxAmount is the largest magnitude a single amount may have. Sums of
// many such amounts still fit in int64 minor units.
var MaxAmount = decimal.New(99_999_999_999_999, -Scale)

var (
	ErrInvalidAmount = errors.New("invalid money amount")
	ErrTooPrecise    = errors.New("amount has more decimal places than the minor unit")
	ErrTooLarge      = errors.New("amount exceeds the maximum")
)

// Parse reads a base-10 amount such as "12.34".
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if err := CheckScale(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// CheckScale rejects amounts that cannot be represented in minor units.
func CheckScale(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(Scale)) {
		return fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}
	return nil
}

// CheckRange rejects amounts whose magnitude exceeds MaxAmount.
func CheckRange(d decimal.Decimal) error {
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s > %s", ErrTooLarge, d.String(), Format(MaxAmount))
	}
	return nil
}

// ToMinor converts an amount to an integer count of minor units. Amounts
// that do not fit in an int64 are rejected rather than truncated.
func ToMinor(d decimal.Decimal) (int64, error) {
	if err := CheckScale(d); err != nil {
		return 0, err
	}
	minor := d.Shift(Scale)
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s does not fit in minor units", ErrInvalidAmount, d.String())
	}
	return minor.IntPart(), nil
}

// FromMinor converts an integer count of minor units back to an amount.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -Scale)
}

// Split divides amount into n equal parts truncated to the minor unit.
// The returned remainder is what is left after n parts; it is always
// non-negative and smaller than n minor units for a non-negative amount.
func Split(amount decimal.Decimal, n int) (part, remainder decimal.Decimal) {
	if n <= 0 {
		return decimal.Zero, amount
	}
	count := decimal.NewFromInt(int64(n))
	part = amount.Div(count).Truncate(Scale)
	remainder = amount.Sub(part.Mul(count))
	return part, remainder
}

// Format renders an amount with exactly Scale decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
