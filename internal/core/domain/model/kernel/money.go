package kernel

import (
	"fmt"
	"math"

	"storefront/internal/pkg/errs"
)

// ErrMoneyIsNotConstructed indicates a Money value built without NewMoney.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoney")

// Money is a non-negative amount in the minor currency unit (kobo).
// Prices and totals never use floating point.
type Money struct {
	minor         int64
	isConstructed bool
}

// NewMoney validates that minor is not negative.
func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", minor, 0, int64(math.MaxInt64))
	}
	return Money{minor: minor, isConstructed: true}, nil
}

// ZeroMoney is the constructed zero amount.
func ZeroMoney() Money {
	return Money{isConstructed: true}
}

// Minor returns the amount in the minor currency unit.
func (m Money) Minor() int64 {
	return m.minor
}

// Add returns m + other, failing on int64 overflow.
func (m Money) Add(other Money) (Money, error) {
	if other.minor > 0 && m.minor > math.MaxInt64-other.minor {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d + %d overflows", m.minor, other.minor))
	}
	return Money{minor: m.minor + other.minor, isConstructed: true}, nil
}

// Multiply returns m × factor for a non-negative factor, failing on overflow.
func (m Money) Multiply(factor int) (Money, error) {
	if factor < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("factor", factor, 0, math.MaxInt)
	}
	if factor != 0 && m.minor > math.MaxInt64/int64(factor) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d × %d overflows", m.minor, factor))
	}
	return Money{minor: m.minor * int64(factor), isConstructed: true}, nil
}

func (m Money) IsEqual(other Money) bool {
	return m.minor == other.minor
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.minor/100, m.minor%100)
}

func (m Money) Validate() error {
	if !m.isConstructed {
		return ErrMoneyIsNotConstructed
	}
	return nil
}
