package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
)

// ConfirmPaymentCommandHandler marks a pay-on-delivery order paid after the
// driver proves settlement with the POS or transfer code.
//
// A second call after success fails with order.ErrAlreadyPaid so that callers
// can detect duplicate submissions.
type ConfirmPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.VerificationEngine
}

func NewConfirmPaymentCommandHandler(uowFactory OrderUoWFactory) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		engine:     services.NewVerificationEngine(),
	}
}

// Handle checks, in order: order exists, order unpaid, attempt verified. The
// write is conditioned on the order still being unpaid.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (order.PaymentStatus, error) {
	if err := cmd.Validate(); err != nil {
		return order.PaymentStatusUnknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.PaymentStatusUnknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.PaymentStatusUnknown, err
	}
	if o.PaymentStatus().IsPaid() {
		return order.PaymentStatusUnknown, order.ErrAlreadyPaid
	}

	auth, err := h.engine.Verify(o, services.Attempt{
		Channel:             cmd.Channel(),
		SubmittedCode:       cmd.VerificationCode(),
		SettlementReference: cmd.SettlementReference(),
	})
	if err != nil {
		return order.PaymentStatusUnknown, err
	}

	if err = o.MarkPaid(auth.SettlementReference); err != nil {
		return order.PaymentStatusUnknown, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return order.PaymentStatusUnknown, asTerminal(err, order.ErrAlreadyPaid)
	}

	if err = uow.Commit(ctx); err != nil {
		return order.PaymentStatusUnknown, err
	}

	return o.PaymentStatus(), nil
}
