package commands

import (
	"context"
	"errors"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// ConfirmDeliveryCommandHandler hands an order over to its customer.
//
// Writes are sequenced payment first, delivery second, each conditioned on
// the statuses read at load time. An order left paid but undelivered is a
// valid state and the command can simply be retried.
//
// Example:
//
//	handler := NewConfirmDeliveryCommandHandler(uowFactory, time.Now)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrCodeMismatch):
//	    // ask the customer for the code again
//	case errors.Is(err, order.ErrAlreadyDelivered):
//	    // nothing to do
//	}
type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	engine     services.VerificationEngine
	now        func() time.Time
}

func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory, now func() time.Time) ConfirmDeliveryCommandHandler {
	if now == nil {
		now = time.Now
	}
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		engine:     services.NewVerificationEngine(),
		now:        now,
	}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.DeliveryStatus().IsDelivered() {
		return order.ErrAlreadyDelivered
	}

	auth, err := h.engine.Verify(o, services.Attempt{
		Channel:             cmd.Channel(),
		SubmittedCode:       cmd.VerificationCode(),
		SettlementReference: cmd.SettlementReference(),
	})
	if err != nil {
		return err
	}

	if cmd.MarkPaidFirst() && auth.AuthorizesPayment && !o.PaymentStatus().IsPaid() {
		if o, err = h.markPaid(ctx, repo, o, auth); err != nil {
			return err
		}
	}

	if err = o.MarkDelivered(h.now()); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return asTerminal(err, order.ErrAlreadyDelivered)
	}

	return uow.Commit(ctx)
}

// markPaid writes the payment step. Losing the race to another payer is fine
// here: the reloaded order is already paid and delivery can proceed.
func (h ConfirmDeliveryCommandHandler) markPaid(
	ctx context.Context,
	repo ports.OrderRepository,
	o *order.Order,
	auth services.Authorization,
) (*order.Order, error) {
	if err := o.MarkPaid(auth.SettlementReference); err != nil {
		return nil, err
	}

	err := repo.Update(ctx, o)
	if !errors.Is(err, ports.ErrConcurrentModification) {
		return o, err
	}

	reloaded, err := repo.Get(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	if reloaded.DeliveryStatus().IsDelivered() {
		return nil, order.ErrAlreadyDelivered
	}
	return reloaded, nil
}
