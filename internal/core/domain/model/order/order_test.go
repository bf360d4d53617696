package order_test

import (
	"testing"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func newCustomer(t *testing.T) order.Customer {
	t.Helper()
	c, err := order.NewCustomer("Ada Obi", "ada@example.com", "12 Marina Road, Lagos")
	require.NoError(t, err)
	return c
}

func newItem(t *testing.T, ref string, qty int, price int64) order.Item {
	t.Helper()
	p, err := kernel.NewMoney(price)
	require.NoError(t, err)
	item, err := order.NewItem(ref, qty, p)
	require.NoError(t, err)
	return item
}

func newCode(t *testing.T, s string) order.RedemptionCode {
	t.Helper()
	c, err := order.NewRedemptionCode(s)
	require.NoError(t, err)
	return c
}

func newPayNowOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		newCustomer(t),
		[]order.Item{newItem(t, "rice-5kg", 2, 450000)},
		order.PayNow,
		newCode(t, "AB12CD34"),
		order.GatewayCodes{SettlementReference: ptr("ORDER_1_1700000000000")},
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

func newPayOnDeliveryOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		newCustomer(t),
		[]order.Item{newItem(t, "beans-1kg", 1, 120000)},
		order.PayOnDelivery,
		newCode(t, "ZX98YW76"),
		order.GatewayCodes{DeliveryPosCode: ptr("POS9988"), DeliveryTransferCode: ptr("TRX555")},
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with computed total", func(t *testing.T) {
		id := kernel.NewUUID()
		items := []order.Item{
			newItem(t, "rice-5kg", 2, 450000),
			newItem(t, "palm-oil", 3, 1500),
		}

		o, err := order.NewOrder(id, newCustomer(t), items, order.PayNow, newCode(t, "AB12CD34"), order.GatewayCodes{}, time.Now())

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(id))
		assert.Equal(t, int64(2*450000+3*1500), o.TotalAmount().Minor())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, order.DeliveryPending, o.DeliveryStatus())
		assert.Equal(t, "AB12CD34", o.RedemptionCode().String())
		assert.Nil(t, o.DeliveredAt())
		assert.Nil(t, o.SettlementReference())
		assert.Len(t, o.Items(), 2)
		assert.True(t, o.Changes().IsEmpty())
	})

	t.Run("should keep gateway codes for pay on delivery", func(t *testing.T) {
		o := newPayOnDeliveryOrder(t)

		require.NotNil(t, o.DeliveryPosCode())
		require.NotNil(t, o.DeliveryTransferCode())
		assert.Equal(t, "POS9988", *o.DeliveryPosCode())
		assert.Equal(t, "TRX555", *o.DeliveryTransferCode())
	})

	t.Run("should reject delivery codes on pay now", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), newCustomer(t), []order.Item{newItem(t, "rice", 1, 100)},
			order.PayNow, newCode(t, "AB12CD34"),
			order.GatewayCodes{DeliveryPosCode: ptr("POS1")},
			time.Now(),
		)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "pay_now orders cannot carry delivery codes")
	})

	t.Run("should reject empty items", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), newCustomer(t), nil, order.PayNow, newCode(t, "AB12CD34"), order.GatewayCodes{}, time.Now())

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should join multiple validation errors", func(t *testing.T) {
		var id kernel.UUID
		var code order.RedemptionCode

		o, err := order.NewOrder(id, newCustomer(t), []order.Item{newItem(t, "rice", 1, 100)}, order.PaymentMethodUnknown, code, order.GatewayCodes{}, time.Now())

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, order.ErrRedemptionCodeIsNotConstructed)
		assert.Contains(t, err.Error(), "payment method is invalid")
	})
}

func TestOrder_Validate(t *testing.T) {
	var o *order.Order
	assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	assert.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_MarkPaid(t *testing.T) {
	t.Run("should mark pending order paid and record reference", func(t *testing.T) {
		o := newPayOnDeliveryOrder(t)

		err := o.MarkPaid(ptr("ref-1"))

		require.NoError(t, err)
		assert.Equal(t, order.Paid, o.PaymentStatus())
		require.NotNil(t, o.SettlementReference())
		assert.Equal(t, "ref-1", *o.SettlementReference())
		assert.Equal(t, order.Changes{PaymentStatus: true, SettlementReference: true}, o.Changes())
		assert.Equal(t, order.PaymentPending, o.PreImage().PaymentStatus)
	})

	t.Run("should keep existing reference when none given", func(t *testing.T) {
		o := newPayNowOrder(t)

		require.NoError(t, o.MarkPaid(nil))

		assert.Equal(t, "ORDER_1_1700000000000", *o.SettlementReference())
		assert.False(t, o.Changes().SettlementReference)
	})

	t.Run("should refuse second payment", func(t *testing.T) {
		o := newPayOnDeliveryOrder(t)
		require.NoError(t, o.MarkPaid(nil))

		err := o.MarkPaid(ptr("ref-2"))

		assert.ErrorIs(t, err, order.ErrAlreadyPaid)
		assert.ErrorIs(t, err, order.ErrAlreadyInTerminalState)
		assert.Nil(t, o.SettlementReference())
	})
}

func TestOrder_MarkDelivered(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should refuse unpaid order", func(t *testing.T) {
		o := newPayNowOrder(t)

		err := o.MarkDelivered(now)

		assert.ErrorIs(t, err, order.ErrPaymentNotConfirmed)
		assert.Equal(t, order.DeliveryPending, o.DeliveryStatus())
		assert.Nil(t, o.DeliveredAt())
	})

	t.Run("should deliver paid order once", func(t *testing.T) {
		o := newPayNowOrder(t)
		require.NoError(t, o.MarkPaid(nil))

		require.NoError(t, o.MarkDelivered(now))

		assert.Equal(t, order.Delivered, o.DeliveryStatus())
		require.NotNil(t, o.DeliveredAt())
		assert.Equal(t, now, *o.DeliveredAt())

		err := o.MarkDelivered(now.Add(time.Hour))
		assert.ErrorIs(t, err, order.ErrAlreadyDelivered)
		assert.ErrorIs(t, err, order.ErrAlreadyInTerminalState)
		assert.Equal(t, now, *o.DeliveredAt())
	})
}

func TestOrder_AcceptChanges(t *testing.T) {
	o := newPayNowOrder(t)
	require.NoError(t, o.MarkPaid(nil))
	require.NoError(t, o.MarkDelivered(time.Now()))

	o.AcceptChanges()

	assert.True(t, o.Changes().IsEmpty())
	assert.Equal(t, order.PreImage{PaymentStatus: order.Paid, DeliveryStatus: order.Delivered}, o.PreImage())
}

func TestRestoreOrder(t *testing.T) {
	total, err := kernel.NewMoney(900000)
	require.NoError(t, err)
	base := order.Snapshot{
		ID:                     kernel.NewUUID(),
		Items:                  []order.Item{newItem(t, "rice-5kg", 2, 450000)},
		Customer:               newCustomer(t),
		TotalAmount:            total,
		PaymentMethod:          order.PayOnDelivery,
		PaymentStatus:          order.PaymentPending,
		DeliveryStatus:         order.DeliveryPending,
		RedemptionCode:         newCode(t, "QW12ER34"),
		LegacyOfflineReference: ptr("OFF-77"),
		CreatedAt:              time.Now().UTC(),
	}

	t.Run("should restore persisted state", func(t *testing.T) {
		o, err := order.RestoreOrder(base)

		require.NoError(t, err)
		assert.True(t, o.ID().IsEqual(base.ID))
		assert.Equal(t, "OFF-77", *o.LegacyOfflineReference())
		assert.Nil(t, o.DeliveryPosCode())
		assert.Equal(t, order.PreImage{PaymentStatus: order.PaymentPending, DeliveryStatus: order.DeliveryPending}, o.PreImage())
	})

	t.Run("should reject delivered but unpaid state", func(t *testing.T) {
		s := base
		s.DeliveryStatus = order.Delivered

		o, err := order.RestoreOrder(s)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		s := base
		s.PaymentStatus = order.PaymentStatusUnknown

		_, err := order.RestoreOrder(s)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
