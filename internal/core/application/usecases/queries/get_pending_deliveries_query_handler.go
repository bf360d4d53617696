package queries

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetPendingDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewGetPendingDeliveriesQueryHandler(db *gorm.DB) GetPendingDeliveriesQueryHandler {
	return GetPendingDeliveriesQueryHandler{db: db}
}

// Handle returns one page of orders whose delivery status is still pending,
// regardless of payment. Unpaid pay-on-delivery orders are expected here.
func (h GetPendingDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetPendingDeliveriesQuery,
) ([]GetPendingDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPendingDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_name,
			customer_address,
			payment_method,
			payment_status,
			total_amount,
			created_at
		FROM orders
		WHERE delivery_status = ?
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`, order.DeliveryPending.String(), query.Limit(), query.Offset()).Rows()
	if err != nil {
		return nil, errs.NewStoreUnavailableError("list pending deliveries", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPendingDeliveriesQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.CustomerName,
			&resp.CustomerAddress,
			&resp.PaymentMethod,
			&resp.PaymentStatus,
			&resp.TotalAmount,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.CreatedAt = resp.CreatedAt.UTC()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
