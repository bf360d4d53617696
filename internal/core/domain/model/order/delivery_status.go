package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// DeliveryStatus is the delivery axis of an order.
//
//	DeliveryPending ──Deliver (requires Paid)──> Delivered   (terminal)
type DeliveryStatus int

const (
	DeliveryStatusUnknown DeliveryStatus = iota
	DeliveryPending
	Delivered
)

var deliveryStatusNames = map[DeliveryStatus]string{
	DeliveryPending: "pending",
	Delivered:       "delivered",
}

// ParseDeliveryStatus maps the persisted name to a DeliveryStatus.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	for st, name := range deliveryStatusNames {
		if name == s {
			return st, nil
		}
	}
	return DeliveryStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"delivery status is invalid",
		fmt.Errorf("%q is not a valid delivery status", s),
	)
}

func (s DeliveryStatus) String() string {
	if name, ok := deliveryStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s DeliveryStatus) Validate() error {
	if _, ok := deliveryStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery status is invalid",
			fmt.Errorf("%d is not a valid delivery status", s),
		)
	}
	return nil
}

// IsDelivered reports whether the terminal Delivered state has been reached.
func (s DeliveryStatus) IsDelivered() bool {
	return s == Delivered
}

// Deliver transitions DeliveryPending to Delivered given the current payment
// status. Delivered yields ErrAlreadyDelivered regardless of payment; an
// unpaid order yields ErrPaymentNotConfirmed.
func (s DeliveryStatus) Deliver(payment PaymentStatus) (DeliveryStatus, error) {
	switch s {
	case Delivered:
		return 0, ErrAlreadyDelivered
	case DeliveryPending:
		if !payment.IsPaid() {
			return 0, ErrPaymentNotConfirmed
		}
		return Delivered, nil
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"delivery status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s),
		)
	}
}
