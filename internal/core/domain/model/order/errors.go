package order

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyInTerminalState is the common cause of ErrAlreadyPaid and ErrAlreadyDelivered.
	ErrAlreadyInTerminalState = errors.New("order is already in a terminal state")

	// ErrAlreadyPaid is returned when a payment transition is attempted on a paid order.
	ErrAlreadyPaid = &TerminalStateError{Axis: "payment", State: "paid"}

	// ErrAlreadyDelivered is returned when a delivery transition is attempted on a delivered order.
	ErrAlreadyDelivered = &TerminalStateError{Axis: "delivery", State: "delivered"}

	// ErrPaymentNotConfirmed is returned when delivery is attempted before payment.
	ErrPaymentNotConfirmed = errors.New("payment not confirmed yet")

	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// TerminalStateError reports that one status axis has already reached its final state.
type TerminalStateError struct {
	Axis  string
	State string
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("order already %s", e.State)
}

func (e *TerminalStateError) Unwrap() error {
	return ErrAlreadyInTerminalState
}
