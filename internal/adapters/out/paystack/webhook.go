package paystack

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"
)

// SignatureHeader carries the hex HMAC-SHA512 of the raw webhook body.
const SignatureHeader = "x-paystack-signature"

// EventChargeSuccess is the only event the storefront acts on.
const EventChargeSuccess = "charge.success"

// WebhookVerifier checks Paystack's signature with the webhook secret.
type WebhookVerifier struct {
	secret []byte
}

var _ ports.WebhookVerifier = (*WebhookVerifier)(nil)

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errs.NewValueIsRequiredError("paystack webhook secret")
	}
	return &WebhookVerifier{secret: []byte(secret)}, nil
}

// Verify returns ports.ErrInvalidSignature for a missing, malformed or wrong
// signature.
func (v *WebhookVerifier) Verify(signature string, body []byte) error {
	if signature == "" {
		return fmt.Errorf("%w: missing signature", ports.ErrInvalidSignature)
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrInvalidSignature, err)
	}

	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ports.ErrInvalidSignature
	}
	return nil
}

// Sign produces the signature Paystack would send for body.
func (v *WebhookVerifier) Sign(body []byte) string {
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Event is a decoded webhook payload.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

type EventData struct {
	ID        int64          `json:"id"`
	Reference string         `json:"reference"`
	Amount    int64          `json:"amount"`
	Metadata  map[string]any `json:"metadata"`
}

// MetadataOrderID returns metadata.orderId when it is a non-empty string.
func (d EventData) MetadataOrderID() string {
	id, _ := d.Metadata["orderId"].(string)
	return id
}

// ParseEvent decodes body. Paystack sends metadata as "" when none was set,
// which is tolerated.
func ParseEvent(body []byte) (Event, error) {
	var raw struct {
		Event string `json:"event"`
		Data  struct {
			ID        int64           `json:"id"`
			Reference string          `json:"reference"`
			Amount    int64           `json:"amount"`
			Metadata  json.RawMessage `json:"metadata"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Event{}, errs.NewValueIsInvalidErrorWithCause("webhook body", err)
	}

	ev := Event{
		Event: raw.Event,
		Data: EventData{
			ID:        raw.Data.ID,
			Reference: raw.Data.Reference,
			Amount:    raw.Data.Amount,
		},
	}
	if meta := bytes.TrimSpace(raw.Data.Metadata); len(meta) > 0 && meta[0] == '{' {
		if err := json.Unmarshal(meta, &ev.Data.Metadata); err != nil {
			return Event{}, errs.NewValueIsInvalidErrorWithCause("webhook metadata", err)
		}
	}
	return ev, nil
}

// ReplayGuard remembers recently processed deliveries so a retried webhook
// is acknowledged without touching the store again.
type ReplayGuard struct {
	seen *gocache.Cache
}

// DefaultReplayTTL is used when NewReplayGuard is given a non-positive TTL,
// which go-cache would otherwise treat as never expiring.
const DefaultReplayTTL = 10 * time.Minute

func NewReplayGuard(ttl time.Duration) *ReplayGuard {
	if ttl <= 0 {
		ttl = DefaultReplayTTL
	}
	return &ReplayGuard{seen: gocache.New(ttl, 2*ttl)}
}

// Claim returns false when key was claimed within the TTL.
func (g *ReplayGuard) Claim(key string) bool {
	return g.seen.Add(key, struct{}{}, gocache.DefaultExpiration) == nil
}

// Release forgets key so a failed delivery can be retried.
func (g *ReplayGuard) Release(key string) {
	g.seen.Delete(key)
}
