package ports

import (
	"context"
	"errors"
	"time"
)

// ErrGatewayUnavailable wraps every transport or protocol failure of the
// payment gateway.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// TransactionStatus is the gateway's verdict on a transaction.
type TransactionStatus string

const (
	TransactionSuccess   TransactionStatus = "success"
	TransactionFailed    TransactionStatus = "failed"
	TransactionAbandoned TransactionStatus = "abandoned"
	TransactionOngoing   TransactionStatus = "ongoing"
)

// TransactionRequest initializes a hosted payment. Amount is in kobo.
type TransactionRequest struct {
	Email     string
	Amount    int64
	Reference string
	Channels  []string
	Metadata  map[string]string
}

// Transaction is an initialized hosted payment.
type Transaction struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// PaymentRequestInput creates an invoice payable offline at a POS terminal.
type PaymentRequestInput struct {
	CustomerCode string
	Amount       int64
	DueDate      time.Time
	Metadata     map[string]string
}

// PaymentRequest is the gateway's invoice. OfflineReference is the code a POS
// terminal settles it with.
type PaymentRequest struct {
	RequestCode      string
	InvoiceNumber    string
	OfflineReference string
}

// Verification is the gateway's current view of a transaction.
type Verification struct {
	Reference string
	Status    TransactionStatus
	Amount    int64
	PaidAt    *time.Time
}

// PaymentGateway is the external settlement authority.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, req TransactionRequest) (Transaction, error)
	CreatePaymentRequest(ctx context.Context, req PaymentRequestInput) (PaymentRequest, error)
	VerifyTransaction(ctx context.Context, reference string) (Verification, error)

	// FindOrCreateCustomer returns the gateway customer code for email.
	FindOrCreateCustomer(ctx context.Context, email, name string) (string, error)
}

// ErrInvalidSignature is returned by a WebhookVerifier for unauthentic payloads.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookVerifier authenticates gateway callbacks.
type WebhookVerifier interface {
	Verify(signature string, body []byte) error
}
