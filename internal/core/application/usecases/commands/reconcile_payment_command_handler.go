package commands

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// ReconcileOutcome is the result of one reconciliation attempt.
type ReconcileOutcome int

const (
	// ReconcileSkipped means there was nothing to ask the gateway about.
	ReconcileSkipped ReconcileOutcome = iota + 1
	// ReconcileSettled means the gateway confirmed payment and the order is now paid.
	ReconcileSettled
	// ReconcileUnsettled means the gateway has not seen a successful charge yet.
	ReconcileUnsettled
	// ReconcileFailed means the gateway or the store could not be consulted.
	ReconcileFailed
)

func (o ReconcileOutcome) String() string {
	switch o {
	case ReconcileSkipped:
		return "skipped"
	case ReconcileSettled:
		return "settled"
	case ReconcileUnsettled:
		return "unsettled"
	case ReconcileFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ReconcileResult carries the outcome and, for ReconcileFailed, the cause.
type ReconcileResult struct {
	Outcome ReconcileOutcome
	Cause   error
}

// ReconcilePaymentCommandHandler is the best-effort side channel of the
// payment axis. It never returns an error: failures are logged and reported as
// ReconcileFailed so that readers can carry on with the persisted state.
type ReconcilePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	logger     *slog.Logger
}

func NewReconcilePaymentCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	logger *slog.Logger,
) ReconcilePaymentCommandHandler {
	return ReconcilePaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger.With("component", "payment-reconciliation"),
	}
}

func (h ReconcilePaymentCommandHandler) Handle(ctx context.Context, cmd ReconcilePaymentCommand) ReconcileResult {
	outcome, err := h.reconcile(ctx, cmd)
	if err != nil {
		h.logger.WarnContext(ctx, "reconciliation failed",
			"order_id", cmd.OrderID().String(),
			"error", err,
		)
		return ReconcileResult{Outcome: ReconcileFailed, Cause: err}
	}

	if outcome == ReconcileSettled {
		h.logger.InfoContext(ctx, "order settled by reconciliation", "order_id", cmd.OrderID().String())
	}
	return ReconcileResult{Outcome: outcome}
}

func (h ReconcilePaymentCommandHandler) reconcile(ctx context.Context, cmd ReconcilePaymentCommand) (ReconcileOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	o, err := h.load(ctx, cmd.OrderID())
	if err != nil {
		return 0, err
	}
	ref := o.SettlementReference()
	if o.PaymentStatus().IsPaid() || ref == nil {
		return ReconcileSkipped, nil
	}

	// No transaction is held while the gateway answers.
	verification, err := h.gateway.VerifyTransaction(ctx, *ref)
	if err != nil {
		return 0, err
	}
	if verification.Status != ports.TransactionSuccess {
		return ReconcileUnsettled, nil
	}

	if err = o.MarkPaid(ref); err != nil {
		return 0, err
	}
	return h.settle(ctx, o)
}

func (h ReconcilePaymentCommandHandler) load(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().Get(ctx, id)
}

// settle persists the paid order. The update is conditional on the state
// the order was loaded in, so a confirmation that landed while the gateway
// was being asked wins and the order is reported as skipped.
func (h ReconcilePaymentCommandHandler) settle(ctx context.Context, o *order.Order) (ReconcileOutcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := uow.OrderRepository().Update(ctx, o)
	if errors.Is(err, ports.ErrConcurrentModification) {
		return ReconcileSkipped, nil
	} else if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return ReconcileSettled, nil
}
