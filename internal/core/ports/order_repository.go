// Package ports defines the contracts between the storefront core and its
// infrastructure: order persistence, the transaction boundary and the payment
// gateway.
package ports

import (
	"context"
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// ErrConcurrentModification is returned by OrderRepository.Update when the
// stored statuses no longer match the order's pre-image.
var ErrConcurrentModification = errors.New("order was modified concurrently")

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// NextIdentity returns a fresh identifier for an order about to be added.
	NextIdentity() kernel.UUID

	// Add persists a new order aggregate. The redemption code must be unused.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes only the fields listed in aggregate.Changes(), conditioned on
	// the stored statuses still equal to aggregate.PreImage(). A miss returns
	// ErrConcurrentModification and leaves storage untouched. On success the
	// aggregate's changes are accepted.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier, or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ExistsByRedemptionCode reports whether any order already uses code.
	ExistsByRedemptionCode(ctx context.Context, code string) (bool, error)

	// FindBySettlementReference returns the order carrying reference, or
	// errs.ErrObjectNotFound.
	FindBySettlementReference(ctx context.Context, reference string) (*order.Order, error)

	// FindAwaitingSettlement returns unpaid orders with a settlement reference
	// created before createdBefore, oldest first, at most limit of them.
	FindAwaitingSettlement(ctx context.Context, createdBefore time.Time, limit int) ([]*order.Order, error)
}
