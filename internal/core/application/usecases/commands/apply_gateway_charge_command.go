package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrApplyGatewayChargeCommandIsNotConstructed = errors.New(
	"ApplyGatewayChargeCommand must be created via NewApplyGatewayChargeCommand constructor",
)

// ApplyGatewayChargeCommand applies a successful charge reported by the
// payment gateway. The order is matched by settlement reference first and by
// the order id the checkout put in the transaction metadata second.
type ApplyGatewayChargeCommand struct {
	reference       string
	metadataOrderID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewApplyGatewayChargeCommand(reference string, metadataOrderID *kernel.UUID) (ApplyGatewayChargeCommand, error) {
	if reference == "" {
		return ApplyGatewayChargeCommand{}, errs.NewValueIsRequiredError("reference")
	}
	return ApplyGatewayChargeCommand{
		reference:       reference,
		metadataOrderID: metadataOrderID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyGatewayChargeCommand) Validate() error {
	return c.guard.Validate(ErrApplyGatewayChargeCommandIsNotConstructed)
}

func (c ApplyGatewayChargeCommand) Reference() string { return c.reference }
func (c ApplyGatewayChargeCommand) MetadataOrderID() *kernel.UUID { return c.metadataOrderID }
