package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// PaymentStatus is the payment axis of an order.
//
//	PaymentPending ──MarkPaid──> Paid   (terminal)
type PaymentStatus int

const (
	PaymentStatusUnknown PaymentStatus = iota
	PaymentPending
	Paid
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentPending: "pending",
	Paid:           "paid",
}

// ParsePaymentStatus maps the persisted name to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for st, name := range paymentStatusNames {
		if name == s {
			return st, nil
		}
	}
	return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status is invalid",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

func (s PaymentStatus) String() string {
	if name, ok := paymentStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s PaymentStatus) Validate() error {
	if _, ok := paymentStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid",
			fmt.Errorf("%d is not a valid payment status", s),
		)
	}
	return nil
}

// IsPaid reports whether the terminal Paid state has been reached.
func (s PaymentStatus) IsPaid() bool {
	return s == Paid
}

// MarkPaid transitions PaymentPending to Paid. A paid order yields ErrAlreadyPaid.
func (s PaymentStatus) MarkPaid() (PaymentStatus, error) {
	switch s {
	case PaymentPending:
		return Paid, nil
	case Paid:
		return 0, ErrAlreadyPaid
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid",
			fmt.Errorf("%s is not a valid status to mark paid", s),
		)
	}
}
