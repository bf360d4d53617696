// Package queries contains the read side of the storefront. Handlers read the
// orders tables directly with SQL and return flat read models; they never load
// aggregates.
package queries

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves the customer-facing view of one order. Gateway codes
// are not part of the view; they are handed out at checkout only.
//
// Example:
//
//	query, err := NewGetOrderQuery(id)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the order view. Amounts are in kobo.
type GetOrderQueryResponse struct {
	ID             kernel.UUID
	CustomerName   string
	PaymentMethod  string
	PaymentStatus  string
	DeliveryStatus string
	TotalAmount    int64
	Items          []OrderLineView
	DeliveredAt    *time.Time
	CreatedAt      time.Time
}

// OrderLineView is one line of an order view.
type OrderLineView struct {
	ProductRef string
	Quantity   int
	UnitPrice  int64
}
