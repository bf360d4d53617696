package paystack

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/core/ports"

	gocache "github.com/patrickmn/go-cache"
)

type initializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Reference string            `json:"reference,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Channels  []string          `json:"channels,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// InitializeTransaction opens a hosted checkout. Amounts are in kobo.
func (c *Client) InitializeTransaction(ctx context.Context, req ports.TransactionRequest) (ports.Transaction, error) {
	var data initializeData
	err := c.do(ctx, http.MethodPost, "/transaction/initialize", initializeRequest{
		Email:     req.Email,
		Amount:    req.Amount,
		Reference: req.Reference,
		Metadata:  req.Metadata,
		Channels:  req.Channels,
	}, &data)
	if err != nil {
		return ports.Transaction{}, err
	}

	return ports.Transaction{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

type paymentRequestBody struct {
	Customer string            `json:"customer"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	DueDate  string            `json:"due_date"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type paymentRequestData struct {
	RequestCode      string     `json:"request_code"`
	InvoiceNumber    flexString `json:"invoice_number"`
	OfflineReference string     `json:"offline_reference"`
	Invoice          *struct {
		RequestCode      string     `json:"request_code"`
		InvoiceNumber    flexString `json:"invoice_number"`
		OfflineReference string     `json:"offline_reference"`
	} `json:"invoice"`
}

// CreatePaymentRequest raises an NGN invoice. Paystack has returned the
// invoice both at the top of data and nested under data.invoice.
func (c *Client) CreatePaymentRequest(ctx context.Context, req ports.PaymentRequestInput) (ports.PaymentRequest, error) {
	var data paymentRequestData
	err := c.do(ctx, http.MethodPost, "/paymentrequest", paymentRequestBody{
		Customer: req.CustomerCode,
		Amount:   req.Amount,
		Currency: "NGN",
		DueDate:  req.DueDate.UTC().Format(time.RFC3339),
		Metadata: req.Metadata,
	}, &data)
	if err != nil {
		return ports.PaymentRequest{}, err
	}

	out := ports.PaymentRequest{
		RequestCode:      data.RequestCode,
		InvoiceNumber:    string(data.InvoiceNumber),
		OfflineReference: data.OfflineReference,
	}
	if inv := data.Invoice; inv != nil {
		out = ports.PaymentRequest{
			RequestCode:      inv.RequestCode,
			InvoiceNumber:    string(inv.InvoiceNumber),
			OfflineReference: inv.OfflineReference,
		}
	}
	return out, nil
}

type verifyData struct {
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	Amount    int64      `json:"amount"`
	PaidAt    *time.Time `json:"paid_at"`
}

// VerifyTransaction asks Paystack for the current status of reference.
// Successful verifications are served from memory afterwards.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (ports.Verification, error) {
	if cached, ok := c.verified.Get(reference); ok {
		return cached.(ports.Verification), nil
	}

	var data verifyData
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data); err != nil {
		return ports.Verification{}, err
	}

	v := ports.Verification{
		Reference: data.Reference,
		Status:    ports.TransactionStatus(data.Status),
		Amount:    data.Amount,
		PaidAt:    data.PaidAt,
	}
	if v.Status == ports.TransactionSuccess {
		c.verified.Set(reference, v, gocache.DefaultExpiration)
	}
	return v, nil
}

type customer struct {
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

type createCustomerBody struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

// FindOrCreateCustomer looks the customer up by email and creates one when
// the lookup finds nothing or fails.
func (c *Client) FindOrCreateCustomer(ctx context.Context, email, name string) (string, error) {
	var found []customer
	err := c.do(ctx, http.MethodGet, "/customer?email="+url.QueryEscape(email), nil, &found)
	if err == nil {
		for _, cu := range found {
			if strings.EqualFold(cu.Email, email) && cu.CustomerCode != "" {
				return cu.CustomerCode, nil
			}
		}
	} else if ctx.Err() != nil {
		return "", err
	}

	var created customer
	if err = c.do(ctx, http.MethodPost, "/customer", createCustomerBody{Email: email, FirstName: name}, &created); err != nil {
		return "", err
	}
	return created.CustomerCode, nil
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexString(s)
	return nil
}
