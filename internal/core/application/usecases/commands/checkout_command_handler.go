package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// paymentRequestTTL is how long a pay-on-delivery invoice stays payable.
const paymentRequestTTL = 30 * 24 * time.Hour

// CheckoutResult is what the storefront needs to continue the payment flow.
type CheckoutResult struct {
	OrderID        kernel.UUID
	RedemptionCode string

	// Pay now.
	AccessCode       string
	AuthorizationURL string
	Reference        string

	// Pay on delivery.
	PosCode       string
	TransferCode  string
	InvoiceNumber string
}

// CheckoutCommandHandler creates orders. It draws a unique redemption code,
// opens the gateway side of the payment and persists the order with every
// gateway code already attached, so no order is stored without them.
type CheckoutCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	random     io.Reader
	now        func() time.Time
}

// NewCheckoutCommandHandler uses crypto/rand for codes when random is nil.
func NewCheckoutCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	random io.Reader,
	now func() time.Time,
) CheckoutCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CheckoutCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		random:     random,
		now:        now,
	}
}

func (h CheckoutCommandHandler) Handle(ctx context.Context, cmd CheckoutCommand) (CheckoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	customer, err := order.NewCustomer(cmd.Name(), cmd.Email(), cmd.Address())
	if err != nil {
		return CheckoutResult{}, err
	}
	items, err := toItems(cmd.Lines())
	if err != nil {
		return CheckoutResult{}, err
	}
	total, err := order.TotalOf(items)
	if err != nil {
		return CheckoutResult{}, err
	}

	uow := h.uowFactory.Create()
	lookup := uow.OrderRepository()

	generator, err := services.NewCodeGenerator(h.random, lookup.ExistsByRedemptionCode)
	if err != nil {
		return CheckoutResult{}, err
	}
	code, err := generator.Generate(ctx)
	if err != nil {
		return CheckoutResult{}, err
	}

	now := h.now()
	result := CheckoutResult{OrderID: lookup.NextIdentity(), RedemptionCode: code.String()}

	var codes order.GatewayCodes
	switch cmd.Method() {
	case order.PayNow:
		codes, err = h.openHostedPayment(ctx, &result, customer, total, now)
	default:
		codes, err = h.openDoorstepPayment(ctx, &result, customer, total, now)
	}
	if err != nil {
		return CheckoutResult{}, err
	}

	o, err := order.NewOrder(result.OrderID, customer, items, cmd.Method(), code, codes, now)
	if err != nil {
		return CheckoutResult{}, err
	}

	// The transaction opens only after every gateway call has returned. A
	// code drawn concurrently by another checkout fails Add on the unique index.
	if err = uow.Begin(ctx); err != nil {
		return CheckoutResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return CheckoutResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CheckoutResult{}, err
	}

	return result, nil
}

// openHostedPayment initializes the gateway transaction a pay-now customer
// completes in the browser. Its reference becomes the settlement reference.
func (h CheckoutCommandHandler) openHostedPayment(
	ctx context.Context,
	result *CheckoutResult,
	customer order.Customer,
	total kernel.Money,
	now time.Time,
) (order.GatewayCodes, error) {
	txn, err := h.gateway.InitializeTransaction(ctx, ports.TransactionRequest{
		Email:     customer.Email(),
		Amount:    total.Minor(),
		Reference: fmt.Sprintf("ORDER_%s_%d", result.OrderID, now.UnixMilli()),
		Metadata: map[string]string{
			"orderId":        result.OrderID.String(),
			"redemptionCode": result.RedemptionCode,
			"name":           customer.Name(),
		},
	})
	if err != nil {
		return order.GatewayCodes{}, err
	}

	result.AccessCode = txn.AccessCode
	result.AuthorizationURL = txn.AuthorizationURL
	result.Reference = txn.Reference

	ref := txn.Reference
	return order.GatewayCodes{SettlementReference: &ref}, nil
}

// openDoorstepPayment provisions both door-side codes: an invoice whose
// offline reference a POS terminal settles, and a bank-transfer transaction
// whose access code the driver resumes.
func (h CheckoutCommandHandler) openDoorstepPayment(
	ctx context.Context,
	result *CheckoutResult,
	customer order.Customer,
	total kernel.Money,
	now time.Time,
) (order.GatewayCodes, error) {
	customerCode, err := h.gateway.FindOrCreateCustomer(ctx, customer.Email(), customer.Name())
	if err != nil {
		return order.GatewayCodes{}, err
	}

	invoice, err := h.gateway.CreatePaymentRequest(ctx, ports.PaymentRequestInput{
		CustomerCode: customerCode,
		Amount:       total.Minor(),
		DueDate:      now.Add(paymentRequestTTL),
		Metadata: map[string]string{
			"orderId":        result.OrderID.String(),
			"redemptionCode": result.RedemptionCode,
			"address":        customer.Address(),
		},
	})
	if err != nil {
		return order.GatewayCodes{}, err
	}

	transfer, err := h.gateway.InitializeTransaction(ctx, ports.TransactionRequest{
		Email:     customer.Email(),
		Amount:    total.Minor(),
		Reference: fmt.Sprintf("ORDER_%s_%d_TRF", result.OrderID, now.UnixMilli()),
		Channels:  []string{"bank_transfer"},
		Metadata: map[string]string{
			"orderId": result.OrderID.String(),
		},
	})
	if err != nil {
		return order.GatewayCodes{}, err
	}

	result.PosCode = invoice.OfflineReference
	result.TransferCode = transfer.AccessCode
	result.InvoiceNumber = invoice.InvoiceNumber

	pos, trf := invoice.OfflineReference, transfer.AccessCode
	return order.GatewayCodes{DeliveryPosCode: &pos, DeliveryTransferCode: &trf}, nil
}

func toItems(lines []CheckoutLine) ([]order.Item, error) {
	items := make([]order.Item, 0, len(lines))
	for i, l := range lines {
		price, err := kernel.NewMoney(l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		item, err := order.NewItem(l.ProductRef, l.Quantity, price)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}
