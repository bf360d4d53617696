// Package orderrepo persists order aggregates with GORM. Orders live in the
// orders table; their lines live in order_items.
package orderrepo

import (
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. Statuses are stored by name so the table stays
// readable from psql and from the read-side queries.
type OrderDTO struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Customer       CustomerDTO `gorm:"embedded;embeddedPrefix:customer_"`
	TotalAmount    int64       `gorm:"not null"`
	PaymentMethod  string      `gorm:"type:varchar(32);not null"`
	PaymentStatus  string      `gorm:"type:varchar(16);not null;index"`
	DeliveryStatus string      `gorm:"type:varchar(16);not null;index"`

	RedemptionCode         string  `gorm:"type:char(8);not null;uniqueIndex"`
	DeliveryPosCode        *string `gorm:"type:varchar(64)"`
	LegacyOfflineReference *string `gorm:"type:varchar(64)"`
	DeliveryTransferCode   *string `gorm:"type:varchar(128)"`
	SettlementReference    *string `gorm:"type:varchar(128);index"`

	DeliveredAt *time.Time
	CreatedAt   time.Time `gorm:"not null;index"`

	Items []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// CustomerDTO is embedded into the orders row.
type CustomerDTO struct {
	Name    string `gorm:"type:varchar(255);not null"`
	Email   string `gorm:"type:varchar(255);not null"`
	Address string `gorm:"type:text"`
}

// ItemDTO is one order line. Position keeps the checkout order of the cart.
type ItemDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Position   int       `gorm:"not null"`
	ProductRef string    `gorm:"type:varchar(255);not null"`
	Quantity   int       `gorm:"not null"`
	UnitPrice  int64     `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

// Models lists every table this package owns, for AutoMigrate.
func Models() []any {
	return []any{&OrderDTO{}, &ItemDTO{}}
}

func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	dtoItems := make([]ItemDTO, 0, len(items))
	for i, item := range items {
		dtoItems = append(dtoItems, ItemDTO{
			OrderID:    o.ID().Bytes(),
			Position:   i,
			ProductRef: item.ProductRef(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Minor(),
		})
	}

	return OrderDTO{
		ID: o.ID().Bytes(),
		Customer: CustomerDTO{
			Name:    o.Customer().Name(),
			Email:   o.Customer().Email(),
			Address: o.Customer().Address(),
		},
		TotalAmount:            o.TotalAmount().Minor(),
		PaymentMethod:          o.PaymentMethod().String(),
		PaymentStatus:          o.PaymentStatus().String(),
		DeliveryStatus:         o.DeliveryStatus().String(),
		RedemptionCode:         o.RedemptionCode().String(),
		DeliveryPosCode:        o.DeliveryPosCode(),
		LegacyOfflineReference: o.LegacyOfflineReference(),
		DeliveryTransferCode:   o.DeliveryTransferCode(),
		SettlementReference:    o.SettlementReference(),
		DeliveredAt:            o.DeliveredAt(),
		CreatedAt:              o.CreatedAt(),
		Items:                  dtoItems,
	}
}

// toDomain rebuilds the aggregate through order.RestoreOrder, so rows that
// break the status coupling are reported instead of loaded.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := order.NewCustomer(dto.Customer.Name, dto.Customer.Email, dto.Customer.Address)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, row := range dto.Items {
		price, priceErr := kernel.NewMoney(row.UnitPrice)
		if priceErr != nil {
			return nil, fmt.Errorf("order %s: %w", id, priceErr)
		}
		item, itemErr := order.NewItem(row.ProductRef, row.Quantity, price)
		if itemErr != nil {
			return nil, fmt.Errorf("order %s: %w", id, itemErr)
		}
		items = append(items, item)
	}

	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}
	method, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	payment, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	delivery, err := order.ParseDeliveryStatus(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}
	code, err := order.NewRedemptionCode(dto.RedemptionCode)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                     id,
		Items:                  items,
		Customer:               customer,
		TotalAmount:            total,
		PaymentMethod:          method,
		PaymentStatus:          payment,
		DeliveryStatus:         delivery,
		RedemptionCode:         code,
		DeliveryPosCode:        dto.DeliveryPosCode,
		LegacyOfflineReference: dto.LegacyOfflineReference,
		DeliveryTransferCode:   dto.DeliveryTransferCode,
		SettlementReference:    dto.SettlementReference,
		DeliveredAt:            dto.DeliveredAt,
		CreatedAt:              dto.CreatedAt,
	})
}
