package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// PaymentMethod decides which verification channels are legal for an order.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota

	// PayNow orders are settled through the gateway at checkout and handed
	// over against the redemption code.
	PayNow

	// PayOnDelivery orders are settled at the door by POS terminal or bank
	// transfer, each with its own gateway-issued code.
	PayOnDelivery
)

var paymentMethodNames = map[PaymentMethod]string{
	PayNow:        "pay_now",
	PayOnDelivery: "pay_on_delivery",
}

// ParsePaymentMethod maps the persisted/wire name to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for m, name := range paymentMethodNames {
		if name == s {
			return m, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment method is invalid",
		fmt.Errorf("%q is not a valid payment method", s),
	)
}

func (m PaymentMethod) String() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m PaymentMethod) Validate() error {
	if _, ok := paymentMethodNames[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment method is invalid",
			fmt.Errorf("%d is not a valid payment method", m),
		)
	}
	return nil
}
