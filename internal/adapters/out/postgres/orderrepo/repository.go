package orderrepo

import (
	"context"
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormOrderRepository) NextIdentity() kernel.UUID {
	return kernel.NewUUID()
}

// Add inserts the order together with its lines. A redemption code that is
// already taken is reported as an invalid value.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("redemptionCode", err)
		}
		return errs.NewStoreUnavailableError("add order", err)
	}

	aggregate.AcceptChanges()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the changed columns with a compare-and-set on both status
// columns. When the row exists but its statuses moved on, nothing is written
// and ports.ErrConcurrentModification is returned.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	changes := aggregate.Changes()
	if changes.IsEmpty() {
		return nil
	}

	values := make(map[string]any, 4)
	if changes.PaymentStatus {
		values["payment_status"] = aggregate.PaymentStatus().String()
	}
	if changes.SettlementReference && aggregate.SettlementReference() != nil {
		values["settlement_reference"] = *aggregate.SettlementReference()
	}
	if changes.DeliveryStatus {
		values["delivery_status"] = aggregate.DeliveryStatus().String()
		if at := aggregate.DeliveredAt(); at != nil {
			values["delivered_at"] = *at
		}
	}

	pre := aggregate.PreImage()
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND payment_status = ? AND delivery_status = ?",
			aggregate.ID().Bytes(), pre.PaymentStatus.String(), pre.DeliveryStatus.String()).
		Updates(values)
	if result.Error != nil {
		return errs.NewStoreUnavailableError("update order", result.Error)
	}

	if result.RowsAffected == 0 {
		return r.missReason(ctx, aggregate.ID())
	}

	aggregate.AcceptChanges()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// missReason tells a vanished row apart from a lost race.
func (r *GormOrderRepository) missReason(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return errs.NewStoreUnavailableError("update order", err)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return ports.ErrConcurrentModification
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, errs.NewStoreUnavailableError("get order", err)
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) ExistsByRedemptionCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("redemption_code = ?", code).Count(&count).Error
	if err != nil {
		return false, errs.NewStoreUnavailableError("check redemption code", err)
	}
	return count > 0, nil
}

func (r *GormOrderRepository) FindBySettlementReference(ctx context.Context, reference string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "settlement_reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("settlementReference", reference)
		}
		return nil, errs.NewStoreUnavailableError("find order by reference", err)
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) FindAwaitingSettlement(
	ctx context.Context,
	createdBefore time.Time,
	limit int,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("payment_status = ? AND settlement_reference IS NOT NULL AND created_at < ?",
			order.PaymentPending.String(), createdBefore.UTC()).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewStoreUnavailableError("find orders awaiting settlement", err)
	}

	return toDomainAll(dtos)
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
