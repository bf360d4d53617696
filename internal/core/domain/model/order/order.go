package order

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// Order is the aggregate root of a storefront purchase. It owns the payment
// and delivery status axes and the codes that unlock them.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and at least one item
//   - Total amount equals the sum of item subtotals at creation
//   - Pay-now orders never carry POS or transfer codes
//   - Payment and delivery statuses only move forward
//   - Delivered implies Paid
//
// Orders are created through NewOrder at checkout and rebuilt from storage
// through RestoreOrder.
type Order struct {
	id          kernel.UUID
	items       []Item
	customer    Customer
	totalAmount kernel.Money

	paymentMethod  PaymentMethod
	paymentStatus  PaymentStatus
	deliveryStatus DeliveryStatus

	redemptionCode         RedemptionCode
	deliveryPosCode        *string
	legacyOfflineReference *string
	deliveryTransferCode   *string
	settlementReference    *string

	deliveredAt *time.Time
	createdAt   time.Time

	// preImage holds the statuses as last loaded from or written to storage.
	preImage PreImage
	changes  Changes

	isConstructed bool
}

// GatewayCodes are the gateway-issued values attached to an order at checkout.
// Pay-now orders may only carry a SettlementReference.
type GatewayCodes struct {
	SettlementReference  *string
	DeliveryPosCode      *string
	DeliveryTransferCode *string
}

// PreImage is the pair of statuses an update is conditioned on.
type PreImage struct {
	PaymentStatus  PaymentStatus
	DeliveryStatus DeliveryStatus
}

// Changes lists the fields modified since the order was loaded or last
// accepted by storage.
type Changes struct {
	PaymentStatus       bool
	SettlementReference bool
	DeliveryStatus      bool
}

// IsEmpty reports whether nothing needs to be written.
func (c Changes) IsEmpty() bool {
	return !c.PaymentStatus && !c.SettlementReference && !c.DeliveryStatus
}

// NewOrder creates a pending order and computes its total.
//
// Example:
//
//	customer, _ := order.NewCustomer("Ada", "ada@example.com", "1 Marina")
//	price, _ := kernel.NewMoney(250000)
//	item, _ := order.NewItem("rice-5kg", 2, price)
//	code, _ := order.NewRedemptionCode("AB12CD34")
//	o, err := order.NewOrder(id, customer, []order.Item{item}, order.PayNow, code, order.GatewayCodes{}, time.Now())
func NewOrder(
	id kernel.UUID,
	customer Customer,
	items []Item,
	method PaymentMethod,
	redemptionCode RedemptionCode,
	codes GatewayCodes,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		paymentMethod:  method,
		paymentStatus:  PaymentPending,
		deliveryStatus: DeliveryPending,
		createdAt:      createdAt.UTC(),
		isConstructed:  true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customer),
		o.setItems(items),
		method.Validate(),
		o.setRedemptionCode(redemptionCode),
		o.setGatewayCodes(method, codes),
	); err != nil {
		return nil, err
	}

	total, err := TotalOf(o.items)
	if err != nil {
		return nil, err
	}
	o.totalAmount = total
	o.preImage = PreImage{PaymentStatus: o.paymentStatus, DeliveryStatus: o.deliveryStatus}

	return o, nil
}

// Snapshot is the full persisted state of an order, used by RestoreOrder.
type Snapshot struct {
	ID                     kernel.UUID
	Items                  []Item
	Customer               Customer
	TotalAmount            kernel.Money
	PaymentMethod          PaymentMethod
	PaymentStatus          PaymentStatus
	DeliveryStatus         DeliveryStatus
	RedemptionCode         RedemptionCode
	DeliveryPosCode        *string
	LegacyOfflineReference *string
	DeliveryTransferCode   *string
	SettlementReference    *string
	DeliveredAt            *time.Time
	CreatedAt              time.Time
}

// RestoreOrder rebuilds an order from storage. The stored total is trusted
// as is; status values and the delivered ⇒ paid coupling are re-checked.
func RestoreOrder(s Snapshot) (*Order, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.PaymentMethod.Validate(),
		s.PaymentStatus.Validate(),
		s.DeliveryStatus.Validate(),
		s.RedemptionCode.Validate(),
		s.TotalAmount.Validate(),
	); err != nil {
		return nil, err
	}
	if s.DeliveryStatus.IsDelivered() && !s.PaymentStatus.IsPaid() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"deliveryStatus",
			fmt.Errorf("order %s is delivered but payment is %s", s.ID, s.PaymentStatus),
		)
	}

	return &Order{
		id:                     s.ID,
		items:                  append([]Item(nil), s.Items...),
		customer:               s.Customer,
		totalAmount:            s.TotalAmount,
		paymentMethod:          s.PaymentMethod,
		paymentStatus:          s.PaymentStatus,
		deliveryStatus:         s.DeliveryStatus,
		redemptionCode:         s.RedemptionCode,
		deliveryPosCode:        s.DeliveryPosCode,
		legacyOfflineReference: s.LegacyOfflineReference,
		deliveryTransferCode:   s.DeliveryTransferCode,
		settlementReference:    s.SettlementReference,
		deliveredAt:            s.DeliveredAt,
		createdAt:              s.CreatedAt,
		preImage:               PreImage{PaymentStatus: s.PaymentStatus, DeliveryStatus: s.DeliveryStatus},
		isConstructed:          true,
	}, nil
}

// Validate ensures the Order was built through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) Customer() Customer { return o.customer }
func (o *Order) TotalAmount() kernel.Money { return o.totalAmount }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) DeliveryStatus() DeliveryStatus { return o.deliveryStatus }
func (o *Order) RedemptionCode() RedemptionCode { return o.redemptionCode }
func (o *Order) DeliveryPosCode() *string { return o.deliveryPosCode }
func (o *Order) DeliveryTransferCode() *string { return o.deliveryTransferCode }
func (o *Order) SettlementReference() *string { return o.settlementReference }
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// LegacyOfflineReference is the POS code field of orders created before
// deliveryPosCode existed.
func (o *Order) LegacyOfflineReference() *string { return o.legacyOfflineReference }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// MarkPaid moves the payment axis to Paid and records the settlement
// reference when one is given. A paid order yields ErrAlreadyPaid and is left
// untouched.
func (o *Order) MarkPaid(settlementReference *string) error {
	newStatus, err := o.paymentStatus.MarkPaid()
	if err != nil {
		return err
	}

	o.paymentStatus = newStatus
	o.changes.PaymentStatus = true
	if settlementReference != nil && *settlementReference != "" {
		ref := *settlementReference
		o.settlementReference = &ref
		o.changes.SettlementReference = true
	}
	return nil
}

// MarkDelivered moves the delivery axis to Delivered and stamps deliveredAt.
//
// Returns ErrAlreadyDelivered for a delivered order and
// ErrPaymentNotConfirmed while the order is unpaid.
func (o *Order) MarkDelivered(at time.Time) error {
	newStatus, err := o.deliveryStatus.Deliver(o.paymentStatus)
	if err != nil {
		return err
	}

	stamp := at.UTC()
	o.deliveryStatus = newStatus
	o.deliveredAt = &stamp
	o.changes.DeliveryStatus = true
	return nil
}

// PreImage returns the statuses the next write is conditioned on.
func (o *Order) PreImage() PreImage {
	return o.preImage
}

// Changes returns the fields modified since the last accepted write.
func (o *Order) Changes() Changes {
	return o.changes
}

// AcceptChanges is called by storage after a successful write.
func (o *Order) AcceptChanges() {
	o.preImage = PreImage{PaymentStatus: o.paymentStatus, DeliveryStatus: o.deliveryStatus}
	o.changes = Changes{}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(c Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	o.customer = c
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setRedemptionCode(code RedemptionCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	o.redemptionCode = code
	return nil
}

func (o *Order) setGatewayCodes(method PaymentMethod, codes GatewayCodes) error {
	if method == PayNow && (codes.DeliveryPosCode != nil || codes.DeliveryTransferCode != nil) {
		return errs.NewValueIsInvalidErrorWithCause(
			"gatewayCodes",
			errors.New("pay_now orders cannot carry delivery codes"),
		)
	}
	o.deliveryPosCode = nonEmpty(codes.DeliveryPosCode)
	o.deliveryTransferCode = nonEmpty(codes.DeliveryTransferCode)
	o.settlementReference = nonEmpty(codes.SettlementReference)
	return nil
}

// TotalOf sums the subtotals of items.
func TotalOf(items []Item) (kernel.Money, error) {
	total := kernel.ZeroMoney()
	for _, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return kernel.Money{}, err
		}
		if total, err = total.Add(subtotal); err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
