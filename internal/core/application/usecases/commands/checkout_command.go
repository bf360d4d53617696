package commands

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCheckoutCommandIsNotConstructed = errors.New(
	"CheckoutCommand must be created via NewCheckoutCommand constructor",
)

// CheckoutLine is one cart line as submitted by the storefront. UnitPrice is
// in kobo.
type CheckoutLine struct {
	ProductRef string
	Quantity   int
	UnitPrice  int64
}

// CheckoutCommand turns a cart into a pending order.
//
// Example:
//
//	cmd, err := NewCheckoutCommand(order.PayOnDelivery, "Ada", "ada@example.com", "12 Marina", lines)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	method  order.PaymentMethod
	name    string
	email   string
	address string
	lines   []CheckoutLine

	guard guard.ConstructorGuard
}

// NewCheckoutCommand requires a delivery address for pay-on-delivery orders.
func NewCheckoutCommand(
	method order.PaymentMethod,
	name, email, address string,
	lines []CheckoutLine,
) (CheckoutCommand, error) {
	cmd := CheckoutCommand{
		name:    name,
		email:   email,
		address: address,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setMethod(method),
		cmd.setAddress(method, address),
		cmd.setLines(lines),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return cmd, nil
}

func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

func (c CheckoutCommand) Method() order.PaymentMethod { return c.method }
func (c CheckoutCommand) Name() string { return c.name }
func (c CheckoutCommand) Email() string { return c.email }
func (c CheckoutCommand) Address() string { return c.address }
func (c CheckoutCommand) Lines() []CheckoutLine { return append([]CheckoutLine(nil), c.lines...) }

func (c *CheckoutCommand) setMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	c.method = method
	return nil
}

func (c *CheckoutCommand) setAddress(method order.PaymentMethod, address string) error {
	if method == order.PayOnDelivery && strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("address")
	}
	c.address = address
	return nil
}

func (c *CheckoutCommand) setLines(lines []CheckoutLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, l := range lines {
		if l.Quantity < 1 {
			return errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", i), l.Quantity, 1, math.MaxInt)
		}
	}
	c.lines = append([]CheckoutLine(nil), lines...)
	return nil
}
