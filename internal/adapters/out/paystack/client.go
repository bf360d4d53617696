// Package paystack adapts the Paystack REST API to ports.PaymentGateway and
// authenticates its webhooks.
package paystack

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultBaseURL        = "https://api.paystack.co"
	DefaultTimeout        = 10 * time.Second
	DefaultVerifyCacheTTL = 10 * time.Minute
)

// Config is injected by the composition root. SecretKey is mandatory.
type Config struct {
	SecretKey      string
	BaseURL        string
	Timeout        time.Duration
	VerifyCacheTTL time.Duration
}

// Client talks to the Paystack API with the merchant secret key.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client

	// verified holds successful verifications only; a settled transaction
	// never changes status again.
	verified *gocache.Cache
}

var _ ports.PaymentGateway = (*Client)(nil)

// NewClient fails fast on a missing secret key.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errs.NewValueIsRequiredError("paystack secret key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.VerifyCacheTTL <= 0 {
		cfg.VerifyCacheTTL = DefaultVerifyCacheTTL
	}

	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		verified:   gocache.New(cfg.VerifyCacheTTL, 2*cfg.VerifyCacheTTL),
	}, nil
}

// envelope is the response shape shared by every Paystack endpoint.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// apiError is returned for non-2xx answers and for status=false envelopes.
type apiError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *apiError) Unwrap() error {
	return ports.ErrGatewayUnavailable
}

// do sends body as JSON and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ports.ErrGatewayUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", ports.ErrGatewayUnavailable, path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || !env.Status {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &apiError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err = json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode %s data: %w", ports.ErrGatewayUnavailable, path, err)
	}
	return nil
}
