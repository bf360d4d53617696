package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrReconcilePaymentCommandIsNotConstructed = errors.New(
	"ReconcilePaymentCommand must be created via NewReconcilePaymentCommand constructor",
)

// ReconcilePaymentCommand asks the gateway whether a pending order's
// transaction has settled.
type ReconcilePaymentCommand struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewReconcilePaymentCommand(orderID kernel.UUID) (ReconcilePaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReconcilePaymentCommand{}, err
	}
	return ReconcilePaymentCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReconcilePaymentCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePaymentCommandIsNotConstructed)
}

func (c ReconcilePaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}
