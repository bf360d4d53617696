package queries

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

const (
	DefaultPendingDeliveriesLimit = 50
	MaxPendingDeliveriesLimit     = 200
)

var (
	ErrGetPendingDeliveriesQueryIsNotConstructed = errors.New(
		"GetPendingDeliveriesQuery must be created via NewGetPendingDeliveriesQuery constructor",
	)
)

// GetPendingDeliveriesQuery pages through the orders a driver still has to
// hand over, oldest first.
type GetPendingDeliveriesQuery struct {
	limit  int
	offset int
	guard  guard.ConstructorGuard
}

func NewGetPendingDeliveriesQuery(limit, offset int) (GetPendingDeliveriesQuery, error) {
	if limit < 1 || limit > MaxPendingDeliveriesLimit {
		return GetPendingDeliveriesQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPendingDeliveriesLimit)
	}
	if offset < 0 {
		return GetPendingDeliveriesQuery{}, errs.NewValueIsInvalidError("offset")
	}
	return GetPendingDeliveriesQuery{limit: limit, offset: offset, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPendingDeliveriesQuery) Limit() int {
	return q.limit
}

func (q GetPendingDeliveriesQuery) Offset() int {
	return q.offset
}

func (q GetPendingDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingDeliveriesQueryIsNotConstructed)
}

// GetPendingDeliveriesQueryResponse is one row of the driver dashboard.
type GetPendingDeliveriesQueryResponse struct {
	ID              kernel.UUID
	CustomerName    string
	CustomerAddress string
	PaymentMethod   string
	PaymentStatus   string
	TotalAmount     int64
	CreatedAt       time.Time
}
