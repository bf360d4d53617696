package order_test

import (
	"testing"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_MarkPaid(t *testing.T) {
	tests := []struct {
		name    string
		from    order.PaymentStatus
		want    order.PaymentStatus
		wantErr error
	}{
		{"pending to paid", order.PaymentPending, order.Paid, nil},
		{"paid is terminal", order.Paid, 0, order.ErrAlreadyPaid},
		{"unknown is invalid", order.PaymentStatusUnknown, 0, errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.MarkPaid()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeliveryStatus_Deliver(t *testing.T) {
	tests := []struct {
		name    string
		from    order.DeliveryStatus
		payment order.PaymentStatus
		want    order.DeliveryStatus
		wantErr error
	}{
		{"pending and paid", order.DeliveryPending, order.Paid, order.Delivered, nil},
		{"pending and unpaid", order.DeliveryPending, order.PaymentPending, 0, order.ErrPaymentNotConfirmed},
		{"delivered wins over unpaid", order.Delivered, order.PaymentPending, 0, order.ErrAlreadyDelivered},
		{"delivered and paid", order.Delivered, order.Paid, 0, order.ErrAlreadyDelivered},
		{"unknown is invalid", order.DeliveryStatusUnknown, order.Paid, 0, errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Deliver(tt.payment)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusNames(t *testing.T) {
	for _, name := range []string{"pending", "paid"} {
		s, err := order.ParsePaymentStatus(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}
	for _, name := range []string{"pending", "delivered"} {
		s, err := order.ParseDeliveryStatus(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}
	for _, name := range []string{"pay_now", "pay_on_delivery"} {
		m, err := order.ParsePaymentMethod(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}

	_, err := order.ParsePaymentStatus("refunded")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	_, err = order.ParseDeliveryStatus("lost")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	_, err = order.ParsePaymentMethod("cash")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestTerminalStateErrors(t *testing.T) {
	assert.Equal(t, "order already paid", order.ErrAlreadyPaid.Error())
	assert.Equal(t, "order already delivered", order.ErrAlreadyDelivered.Error())
	assert.NotErrorIs(t, order.ErrAlreadyPaid, order.ErrAlreadyDelivered)
}

func TestRedemptionCode(t *testing.T) {
	t.Run("should match ignoring case", func(t *testing.T) {
		c, err := order.NewRedemptionCode("AB12CD34")
		require.NoError(t, err)

		assert.True(t, c.Matches("AB12CD34"))
		assert.True(t, c.Matches("ab12cd34"))
		assert.False(t, c.Matches("AB12CD35"))
		assert.False(t, c.Matches(""))
	})

	t.Run("should reject malformed codes", func(t *testing.T) {
		for _, v := range []string{"AB12CD3", "AB12CD345", "ab12cd34", "AB12-D34"} {
			_, err := order.NewRedemptionCode(v)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid, v)
		}
		_, err := order.NewRedemptionCode("")
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value never matches", func(t *testing.T) {
		var c order.RedemptionCode
		assert.False(t, c.Matches(""))
		assert.ErrorIs(t, c.Validate(), order.ErrRedemptionCodeIsNotConstructed)
	})
}

func TestNewItem(t *testing.T) {
	price, err := kernel.NewMoney(1500)
	require.NoError(t, err)

	item, err := order.NewItem("palm-oil", 3, price)
	require.NoError(t, err)
	sub, err := item.Subtotal()
	require.NoError(t, err)
	assert.Equal(t, int64(4500), sub.Minor())

	_, err = order.NewItem("", 0, kernel.Money{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.ErrorIs(t, err, kernel.ErrMoneyIsNotConstructed)
}

func TestNewCustomer(t *testing.T) {
	c, err := order.NewCustomer(" Ada ", "ada@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Name())
	assert.Empty(t, c.Address())

	_, err = order.NewCustomer("Ada", "not-an-email", "")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.NewCustomer("", "", "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
