package commands

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrConfirmPaymentCommandIsNotConstructed = errors.New(
	"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
)

// ConfirmPaymentCommand records that a pay-on-delivery order was settled at the
// door by POS terminal or bank transfer.
//
// Example:
//
//	ref := "T123456789"
//	cmd, err := NewConfirmPaymentCommand(orderID, services.ChannelTransfer, "TRX555", &ref)
//	if err != nil {
//	    return err
//	}
//	status, err := handler.Handle(ctx, cmd)
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID             kernel.UUID
	channel             services.Channel
	verificationCode    string
	settlementReference *string

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand accepts only the pos and transfer channels.
func NewConfirmPaymentCommand(
	orderID kernel.UUID,
	channel services.Channel,
	verificationCode string,
	settlementReference *string,
) (ConfirmPaymentCommand, error) {
	cmd := ConfirmPaymentCommand{
		settlementReference: settlementReference,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setChannel(channel),
		cmd.setVerificationCode(verificationCode),
	); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return cmd, nil
}

func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

func (c ConfirmPaymentCommand) OrderID() kernel.UUID { return c.orderID }
func (c ConfirmPaymentCommand) Channel() services.Channel { return c.channel }
func (c ConfirmPaymentCommand) VerificationCode() string { return c.verificationCode }
func (c ConfirmPaymentCommand) SettlementReference() *string { return c.settlementReference }

func (c *ConfirmPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmPaymentCommand) setChannel(channel services.Channel) error {
	if !channel.SettlesPayment() {
		return fmt.Errorf("%w: payment can only be confirmed by pos or transfer", services.ErrInvalidChannel)
	}
	c.channel = channel
	return nil
}

func (c *ConfirmPaymentCommand) setVerificationCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("verificationCode")
	}
	c.verificationCode = code
	return nil
}
