package http

import (
	"io"
	"net/http"

	"storefront/internal/adapters/out/paystack"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// maxWebhookBody bounds the callback body read before the signature check.
const maxWebhookBody = 1 << 20

type WebhookAck struct {
	Received bool `json:"received"`
}

// PaystackWebhook handles POST /api/v1/paystack/webhook. Only charge.success
// changes state; every other authentic event is acknowledged and ignored.
func (s *Server) PaystackWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	signature := c.Request().Header.Get(paystack.SignatureHeader)
	if signature == "" {
		return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: "Missing signature"})
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err = s.verifier.Verify(signature, body); err != nil {
		return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: "Invalid signature"})
	}

	event, err := paystack.ParseEvent(body)
	if err != nil {
		return badRequest(c, "Invalid webhook payload")
	}
	if event.Event != paystack.EventChargeSuccess || event.Data.Reference == "" {
		return c.JSON(http.StatusOK, WebhookAck{Received: true})
	}

	key := event.Event + ":" + event.Data.Reference
	if !s.replay.Claim(key) {
		s.logger.InfoContext(ctx, "duplicate webhook delivery ignored", "reference", event.Data.Reference)
		return c.JSON(http.StatusOK, WebhookAck{Received: true})
	}

	var metadataOrderID *kernel.UUID
	if id, parseErr := kernel.UUIDFromString(event.Data.MetadataOrderID()); parseErr == nil {
		metadataOrderID = &id
	}

	cmd, err := commands.NewApplyGatewayChargeCommand(event.Data.Reference, metadataOrderID)
	if err != nil {
		s.replay.Release(key)
		return badRequest(c, err.Error())
	}

	outcome, err := s.handlers.ApplyGatewayCharge.Handle(ctx, cmd)
	if err != nil {
		s.replay.Release(key)
		return s.respondError(c, err, messages{fallback: "Webhook processing failed"})
	}

	s.logger.InfoContext(ctx, "gateway charge processed",
		"reference", event.Data.Reference,
		"outcome", outcome.String(),
	)
	return c.JSON(http.StatusOK, WebhookAck{Received: true})
}
