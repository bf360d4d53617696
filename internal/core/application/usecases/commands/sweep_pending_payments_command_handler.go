package commands

import (
	"context"
	"time"
)

// SweepSummary counts reconciliation outcomes of one sweep.
type SweepSummary struct {
	Checked   int
	Settled   int
	Unsettled int
	Failed    int
}

// SweepPendingPaymentsCommandHandler catches pay-now orders whose webhook
// never arrived. Candidates are read in their own unit of work; each order is
// then reconciled independently so one failure does not stop the batch.
type SweepPendingPaymentsCommandHandler struct {
	uowFactory OrderUoWFactory
	reconciler ReconcilePaymentCommandHandler
	now        func() time.Time
}

func NewSweepPendingPaymentsCommandHandler(
	uowFactory OrderUoWFactory,
	reconciler ReconcilePaymentCommandHandler,
	now func() time.Time,
) SweepPendingPaymentsCommandHandler {
	if now == nil {
		now = time.Now
	}
	return SweepPendingPaymentsCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
		now:        now,
	}
}

// Handle returns an error only when the candidate list cannot be read.
func (h SweepPendingPaymentsCommandHandler) Handle(ctx context.Context, cmd SweepPendingPaymentsCommand) (SweepSummary, error) {
	if err := cmd.Validate(); err != nil {
		return SweepSummary{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SweepSummary{}, err
	}

	candidates, err := uow.OrderRepository().FindAwaitingSettlement(ctx, h.now().Add(-cmd.Grace()), cmd.Limit())
	_ = uow.Rollback(ctx)
	if err != nil {
		return SweepSummary{}, err
	}

	var summary SweepSummary
	for _, o := range candidates {
		if ctx.Err() != nil {
			break
		}
		reconcile, cmdErr := NewReconcilePaymentCommand(o.ID())
		if cmdErr != nil {
			summary.Failed++
			continue
		}

		summary.Checked++
		switch h.reconciler.Handle(ctx, reconcile).Outcome {
		case ReconcileSettled:
			summary.Settled++
		case ReconcileUnsettled:
			summary.Unsettled++
		case ReconcileFailed:
			summary.Failed++
		case ReconcileSkipped:
		}
	}

	return summary, ctx.Err()
}
