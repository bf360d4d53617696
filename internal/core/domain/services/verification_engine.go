package services

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

var (
	// ErrInvalidChannel is returned when the channel is not legal for the order's payment method.
	ErrInvalidChannel = errors.New("verification channel not allowed for this order")

	// ErrCodeMismatch is returned when the submitted code differs from the expected one.
	ErrCodeMismatch = errors.New("verification code mismatch")

	// ErrMissingReference is returned when a transfer attempt carries no settlement reference.
	ErrMissingReference = errors.New("settlement reference missing")
)

// Channel is the way a driver proves an order may be paid or handed over.
type Channel int

const (
	ChannelUnknown Channel = iota
	ChannelRedemption
	ChannelPOS
	ChannelTransfer
)

var channelNames = map[Channel]string{
	ChannelRedemption: "redemption",
	ChannelPOS:        "pos",
	ChannelTransfer:   "transfer",
}

// ParseChannel maps the wire name of a channel to a Channel.
func ParseChannel(s string) (Channel, error) {
	for c, name := range channelNames {
		if name == s {
			return c, nil
		}
	}
	return ChannelUnknown, fmt.Errorf("%w: unsupported verification type %q", ErrInvalidChannel, s)
}

func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return "unknown"
}

// SettlesPayment reports whether the channel can authorize a payment.
func (c Channel) SettlesPayment() bool {
	return c == ChannelPOS || c == ChannelTransfer
}

// requiredMethod is the payment method each channel is legal for.
func (c Channel) requiredMethod() order.PaymentMethod {
	switch c {
	case ChannelRedemption:
		return order.PayNow
	case ChannelPOS, ChannelTransfer:
		return order.PayOnDelivery
	default:
		return order.PaymentMethodUnknown
	}
}

// Attempt is one verification submitted by a driver.
type Attempt struct {
	Channel             Channel
	SubmittedCode       string
	SettlementReference *string
}

// Authorization is what an accepted attempt allows the caller to do.
type Authorization struct {
	AuthorizesPayment   bool
	AuthorizesDelivery  bool
	SettlementReference *string
}

// VerificationEngine evaluates attempts against an order snapshot. It has no
// state and performs no I/O.
type VerificationEngine struct{}

func NewVerificationEngine() VerificationEngine {
	return VerificationEngine{}
}

// Verify checks a in this order, returning the first failure:
//
//  1. missing order                    -> errs.ErrObjectNotFound
//  2. order delivered                  -> order.ErrAlreadyDelivered
//  3. channel illegal for the method   -> ErrInvalidChannel
//  4. code differs from expected       -> ErrCodeMismatch
//  5. transfer without reference       -> ErrMissingReference
//  6. redemption on an unpaid order    -> order.ErrPaymentNotConfirmed
//
// Redemption codes compare case-insensitively, POS and transfer codes exactly.
func (VerificationEngine) Verify(o *order.Order, a Attempt) (Authorization, error) {
	if o == nil {
		return Authorization{}, errs.NewObjectNotFoundError("order", "order")
	}
	if o.DeliveryStatus().IsDelivered() {
		return Authorization{}, order.ErrAlreadyDelivered
	}

	method := a.Channel.requiredMethod()
	if method == order.PaymentMethodUnknown {
		return Authorization{}, fmt.Errorf("%w: unsupported verification type", ErrInvalidChannel)
	}
	if method != o.PaymentMethod() {
		return Authorization{}, fmt.Errorf("%w: %s verification is not allowed for %s orders",
			ErrInvalidChannel, a.Channel, o.PaymentMethod())
	}

	switch a.Channel {
	case ChannelRedemption:
		if !o.RedemptionCode().Matches(a.SubmittedCode) {
			return Authorization{}, fmt.Errorf("%w: redemption code", ErrCodeMismatch)
		}
		if !o.PaymentStatus().IsPaid() {
			return Authorization{}, order.ErrPaymentNotConfirmed
		}
		return Authorization{AuthorizesDelivery: true}, nil

	case ChannelPOS:
		expected, ok := ResolveExpectedCode(o.DeliveryPosCode(), o.LegacyOfflineReference())
		if !ok || !exactMatch(expected, a.SubmittedCode) {
			return Authorization{}, fmt.Errorf("%w: POS delivery code", ErrCodeMismatch)
		}
		return Authorization{AuthorizesPayment: true, AuthorizesDelivery: true}, nil

	default:
		expected, ok := ResolveExpectedCode(o.DeliveryTransferCode())
		if !ok || !exactMatch(expected, a.SubmittedCode) {
			return Authorization{}, fmt.Errorf("%w: transfer delivery code", ErrCodeMismatch)
		}
		if a.SettlementReference == nil || *a.SettlementReference == "" {
			return Authorization{}, ErrMissingReference
		}
		ref := *a.SettlementReference
		return Authorization{AuthorizesPayment: true, AuthorizesDelivery: true, SettlementReference: &ref}, nil
	}
}

// ResolveExpectedCode returns the first present, non-empty candidate in order.
func ResolveExpectedCode(candidates ...*string) (string, bool) {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c, true
		}
	}
	return "", false
}

func exactMatch(expected, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}
