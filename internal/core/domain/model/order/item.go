package order

import (
	"errors"
	"math"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem")

// Item is one line of an order, frozen at checkout.
type Item struct {
	productRef string
	quantity   int
	unitPrice  kernel.Money
	guard      guard.ConstructorGuard
}

func NewItem(productRef string, quantity int, unitPrice kernel.Money) (Item, error) {
	var errList []error
	if strings.TrimSpace(productRef) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("productRef"))
	}
	if quantity < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt))
	}
	if err := unitPrice.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{
		productRef: productRef,
		quantity:   quantity,
		unitPrice:  unitPrice,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (i Item) ProductRef() string {
	return i.productRef
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal returns quantity × unit price.
func (i Item) Subtotal() (kernel.Money, error) {
	return i.unitPrice.Multiply(i.quantity)
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}
