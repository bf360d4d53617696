package queries

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order and its lines.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	resp := GetOrderQueryResponse{ID: query.OrderID()}
	var deliveredAt sql.NullTime

	err := db.Raw(`
		SELECT
			customer_name,
			payment_method,
			payment_status,
			delivery_status,
			total_amount,
			delivered_at,
			created_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row().Scan(
		&resp.CustomerName,
		&resp.PaymentMethod,
		&resp.PaymentStatus,
		&resp.DeliveryStatus,
		&resp.TotalAmount,
		&deliveredAt,
		&resp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, errs.NewStoreUnavailableError("get order view", err)
	}
	if deliveredAt.Valid {
		at := deliveredAt.Time.UTC()
		resp.DeliveredAt = &at
	}
	resp.CreatedAt = resp.CreatedAt.UTC()

	rows, err := db.Raw(`
		SELECT
			product_ref,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, errs.NewStoreUnavailableError("get order lines", err)
	}
	defer rows.Close()

	resp.Items = make([]OrderLineView, 0)
	for rows.Next() {
		var line OrderLineView
		if err = rows.Scan(&line.ProductRef, &line.Quantity, &line.UnitPrice); err != nil {
			return GetOrderQueryResponse{}, err
		}
		resp.Items = append(resp.Items, line)
	}
	if err = rows.Err(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}
