package commands

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand records the hand-over of an order to its customer.
//
// Pay-now orders are handed over against the redemption code. Pay-on-delivery
// orders are handed over against the POS or transfer code; with markPaidFirst
// the same code also settles payment when the order is still unpaid.
//
// Example:
//
//	cmd, err := NewConfirmDeliveryCommand(orderID, services.ChannelRedemption, "AB12CD34", false, nil)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID             kernel.UUID
	channel             services.Channel
	verificationCode    string
	markPaidFirst       bool
	settlementReference *string

	guard guard.ConstructorGuard
}

func NewConfirmDeliveryCommand(
	orderID kernel.UUID,
	channel services.Channel,
	verificationCode string,
	markPaidFirst bool,
	settlementReference *string,
) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		markPaidFirst:       markPaidFirst,
		settlementReference: settlementReference,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setChannel(channel),
		cmd.setVerificationCode(verificationCode),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) OrderID() kernel.UUID { return c.orderID }
func (c ConfirmDeliveryCommand) Channel() services.Channel { return c.channel }
func (c ConfirmDeliveryCommand) VerificationCode() string { return c.verificationCode }
func (c ConfirmDeliveryCommand) MarkPaidFirst() bool { return c.markPaidFirst }
func (c ConfirmDeliveryCommand) SettlementReference() *string { return c.settlementReference }

func (c *ConfirmDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmDeliveryCommand) setChannel(channel services.Channel) error {
	if channel == services.ChannelUnknown {
		return fmt.Errorf("%w: unsupported verification type", services.ErrInvalidChannel)
	}
	c.channel = channel
	return nil
}

func (c *ConfirmDeliveryCommand) setVerificationCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("verificationCode")
	}
	c.verificationCode = code
	return nil
}
