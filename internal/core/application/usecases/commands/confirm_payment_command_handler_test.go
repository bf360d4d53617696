package commands_test

import (
	"errors"
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmPaymentCommand(t *testing.T) {
	t.Run("rejects redemption channel", func(t *testing.T) {
		_, err := commands.NewConfirmPaymentCommand(kernel.NewUUID(), services.ChannelRedemption, "AB12CD34", nil)

		assert.ErrorIs(t, err, services.ErrInvalidChannel)
	})

	t.Run("requires code and order id", func(t *testing.T) {
		_, err := commands.NewConfirmPaymentCommand(kernel.UUID{}, services.ChannelPOS, "", nil)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.ConfirmPaymentCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrConfirmPaymentCommandIsNotConstructed)
	})
}

func TestConfirmPaymentCommandHandler_POS(t *testing.T) {
	ctx := t.Context()
	o := restoreOrder(t, orderState{
		method: order.PayOnDelivery, payment: order.PaymentPending, delivery: order.DeliveryPending,
		posCode: ptr("POS9988"),
	})

	t.Run("wrong code is a mismatch and writes nothing", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		factory, uow := newUoW(ctx, repo)
		cmd, err := commands.NewConfirmPaymentCommand(o.ID(), services.ChannelPOS, "POS9987", nil)
		require.NoError(t, err)

		_, err = commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		assert.ErrorIs(t, err, services.ErrCodeMismatch)
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("right code marks the order paid", func(t *testing.T) {
		repo := new(MockOrderRepository)
		factory, uow := newUoW(ctx, repo)
		mock.InOrder(
			repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
			repo.On("Update", ctx, o).Return(nil).Once(),
			uow.On("Commit", ctx).Return(nil).Once(),
		)
		cmd, err := commands.NewConfirmPaymentCommand(o.ID(), services.ChannelPOS, "POS9988", nil)
		require.NoError(t, err)

		status, err := commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Paid, status)
		assert.Equal(t, order.Paid, o.PaymentStatus())
		assert.Nil(t, o.SettlementReference())
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("second identical call is already paid", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		factory, uow := newUoW(ctx, repo)
		cmd, err := commands.NewConfirmPaymentCommand(o.ID(), services.ChannelPOS, "POS9988", nil)
		require.NoError(t, err)

		_, err = commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		assert.ErrorIs(t, err, order.ErrAlreadyPaid)
		assert.ErrorIs(t, err, order.ErrAlreadyInTerminalState)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertExpectations(t)
	})
}

func TestConfirmPaymentCommandHandler_Transfer(t *testing.T) {
	ctx := t.Context()
	o := restoreOrder(t, orderState{
		method: order.PayOnDelivery, payment: order.PaymentPending, delivery: order.DeliveryPending,
		transferCode: ptr("TRX555"),
	})

	t.Run("missing reference is rejected even with the right code", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		factory, _ := newUoW(ctx, repo)
		cmd, err := commands.NewConfirmPaymentCommand(o.ID(), services.ChannelTransfer, "TRX555", nil)
		require.NoError(t, err)

		_, err = commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		assert.ErrorIs(t, err, services.ErrMissingReference)
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
	})

	t.Run("reference is persisted with the payment", func(t *testing.T) {
		repo := new(MockOrderRepository)
		factory, uow := newUoW(ctx, repo)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		repo.On("Update", ctx, mock.MatchedBy(func(got *order.Order) bool {
			c := got.Changes()
			return c.PaymentStatus && c.SettlementReference && *got.SettlementReference() == "ref-1"
		})).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		cmd, err := commands.NewConfirmPaymentCommand(o.ID(), services.ChannelTransfer, "TRX555", ptr("ref-1"))
		require.NoError(t, err)

		status, err := commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Paid, status)
		assert.Equal(t, "ref-1", *o.SettlementReference())
		repo.AssertExpectations(t)
	})
}

func TestConfirmPaymentCommandHandler_Failures(t *testing.T) {
	ctx := t.Context()

	t.Run("unknown order is not found", func(t *testing.T) {
		id := kernel.NewUUID()
		repo := new(MockOrderRepository)
		repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("orderId", id.String())).Once()
		factory, _ := newUoW(ctx, repo)
		cmd, err := commands.NewConfirmPaymentCommand(id, services.ChannelPOS, "POS1", nil)
		require.NoError(t, err)

		_, err = commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("pos against pay now is an invalid channel", func(t *testing.T) {
		o := restoreOrder(t, orderState{method: order.PayNow, payment: order.PaymentPending, delivery: order.DeliveryPending})
		repo := new(MockOrderRepository)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		factory, _ := newUoW(ctx, repo)
		cmd, err := commands.NewConfirmPaymentCommand(o.ID(), services.ChannelPOS, "AB12CD34", nil)
		require.NoError(t, err)

		_, err = commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		assert.ErrorIs(t, err, services.ErrInvalidChannel)
	})

	t.Run("lost race is reported as already paid", func(t *testing.T) {
		o := restoreOrder(t, orderState{
			method: order.PayOnDelivery, payment: order.PaymentPending, delivery: order.DeliveryPending,
			posCode: ptr("POS1"),
		})
		repo := new(MockOrderRepository)
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		repo.On("Update", ctx, o).Return(ports.ErrConcurrentModification).Once()
		factory, uow := newUoW(ctx, repo)
		cmd, err := commands.NewConfirmPaymentCommand(o.ID(), services.ChannelPOS, "POS1", nil)
		require.NoError(t, err)

		_, err = commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		assert.ErrorIs(t, err, order.ErrAlreadyPaid)
		assert.ErrorIs(t, err, ports.ErrConcurrentModification)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		id := kernel.NewUUID()
		storeErr := errs.NewStoreUnavailableError("get order", errors.New("connection reset"))
		repo := new(MockOrderRepository)
		repo.On("Get", ctx, id).Return(nil, storeErr).Once()
		factory, _ := newUoW(ctx, repo)
		cmd, err := commands.NewConfirmPaymentCommand(id, services.ChannelPOS, "POS1", nil)
		require.NoError(t, err)

		_, err = commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	})

	t.Run("begin failure stops early", func(t *testing.T) {
		uow := new(MockOrderUoW)
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once()
		factory := new(MockOrderUoWFactory)
		factory.On("Create").Return(uow).Once()
		cmd, err := commands.NewConfirmPaymentCommand(kernel.NewUUID(), services.ChannelPOS, "POS1", nil)
		require.NoError(t, err)

		_, err = commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, cmd)

		require.Error(t, err)
		uow.AssertExpectations(t)
	})

	t.Run("unconstructed command is rejected", func(t *testing.T) {
		factory := new(MockOrderUoWFactory)

		_, err := commands.NewConfirmPaymentCommandHandler(factory).Handle(ctx, commands.ConfirmPaymentCommand{})

		assert.ErrorIs(t, err, commands.ErrConfirmPaymentCommandIsNotConstructed)
		factory.AssertNotCalled(t, "Create")
	})
}
