package commands

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// ChargeOutcome tells the webhook what a charge did to the order store.
type ChargeOutcome int

const (
	// ChargeApplied means the order moved to Paid.
	ChargeApplied ChargeOutcome = iota + 1
	// ChargeAlreadyApplied means the order was already paid; duplicate deliveries land here.
	ChargeAlreadyApplied
	// ChargeUnmatched means no order carries the reference or metadata id.
	ChargeUnmatched
)

func (o ChargeOutcome) String() string {
	switch o {
	case ChargeApplied:
		return "applied"
	case ChargeAlreadyApplied:
		return "already_applied"
	case ChargeUnmatched:
		return "unmatched"
	default:
		return "unknown"
	}
}

// ApplyGatewayChargeCommandHandler marks an order paid on the gateway's word.
// It is idempotent: replays and late duplicates are reported, not failed.
type ApplyGatewayChargeCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewApplyGatewayChargeCommandHandler(uowFactory OrderUoWFactory) ApplyGatewayChargeCommandHandler {
	return ApplyGatewayChargeCommandHandler{uowFactory: uowFactory}
}

func (h ApplyGatewayChargeCommandHandler) Handle(ctx context.Context, cmd ApplyGatewayChargeCommand) (ChargeOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := h.find(ctx, repo, cmd)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ChargeUnmatched, nil
	}
	if err != nil {
		return 0, err
	}

	ref := cmd.Reference()
	if err = o.MarkPaid(&ref); errors.Is(err, order.ErrAlreadyPaid) {
		return ChargeAlreadyApplied, nil
	} else if err != nil {
		return 0, err
	}

	if err = repo.Update(ctx, o); errors.Is(err, ports.ErrConcurrentModification) {
		return ChargeAlreadyApplied, nil
	} else if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return ChargeApplied, nil
}

func (h ApplyGatewayChargeCommandHandler) find(
	ctx context.Context,
	repo ports.OrderRepository,
	cmd ApplyGatewayChargeCommand,
) (*order.Order, error) {
	o, err := repo.FindBySettlementReference(ctx, cmd.Reference())
	if err == nil || !errors.Is(err, errs.ErrObjectNotFound) || cmd.MetadataOrderID() == nil {
		return o, err
	}
	return repo.Get(ctx, *cmd.MetadataOrderID())
}
