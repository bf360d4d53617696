package order

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

const (
	// RedemptionCodeLength is the number of characters in a redemption code.
	RedemptionCodeLength = 8

	// RedemptionCodeAlphabet is the set of characters a redemption code is drawn from.
	RedemptionCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrRedemptionCodeIsNotConstructed = errors.New("RedemptionCode must be created via NewRedemptionCode")

// RedemptionCode is the customer-held secret that unlocks hand-over of a
// prepaid order. It is stored upper-case.
type RedemptionCode struct {
	value string
	guard guard.ConstructorGuard
}

// NewRedemptionCode validates the length and alphabet of value.
func NewRedemptionCode(value string) (RedemptionCode, error) {
	if value == "" {
		return RedemptionCode{}, errs.NewValueIsRequiredError("redemptionCode")
	}
	if len(value) != RedemptionCodeLength {
		return RedemptionCode{}, errs.NewValueIsInvalidErrorWithCause(
			"redemptionCode",
			fmt.Errorf("length %d is not %d", len(value), RedemptionCodeLength),
		)
	}
	for _, r := range value {
		if !strings.ContainsRune(RedemptionCodeAlphabet, r) {
			return RedemptionCode{}, errs.NewValueIsInvalidErrorWithCause(
				"redemptionCode",
				fmt.Errorf("%q is outside [A-Z0-9]", r),
			)
		}
	}

	return RedemptionCode{value: value, guard: guard.NewConstructorGuard()}, nil
}

func (c RedemptionCode) String() string {
	return c.value
}

// Matches compares submitted against the code ignoring case.
func (c RedemptionCode) Matches(submitted string) bool {
	if c.value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(strings.ToUpper(submitted))) == 1
}

func (c RedemptionCode) Validate() error {
	return c.guard.Validate(ErrRedemptionCodeIsNotConstructed)
}
