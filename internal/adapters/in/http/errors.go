package http

import (
	"errors"
	"net/http"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// messages overrides the default message of a status for one endpoint.
type messages struct {
	required      string
	invalidMethod string
	mismatch      string
	noReference   string
	fallback      string
}

// statusOf maps a use case error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrCodeMismatch):
		return http.StatusForbidden
	case errors.Is(err, order.ErrAlreadyInTerminalState),
		errors.Is(err, order.ErrPaymentNotConfirmed):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, services.ErrInvalidChannel),
		errors.Is(err, services.ErrMissingReference):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrGatewayUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageOf picks the human-readable reason for err.
func messageOf(err error, m messages) string {
	var terminal *order.TerminalStateError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return "Order not found"
	case errors.As(err, &terminal):
		return "Order already " + terminal.State
	case errors.Is(err, order.ErrPaymentNotConfirmed):
		return "Payment not confirmed yet"
	case errors.Is(err, services.ErrCodeMismatch) && m.mismatch != "":
		return m.mismatch
	case errors.Is(err, services.ErrMissingReference) && m.noReference != "":
		return m.noReference
	case errors.Is(err, services.ErrInvalidChannel) && m.invalidMethod != "":
		return m.invalidMethod
	case errors.Is(err, errs.ErrValueIsRequired) && m.required != "":
		return m.required
	case statusOf(err) == http.StatusBadRequest:
		return err.Error()
	default:
		return m.fallback
	}
}

func (s *Server) respondError(c echo.Context, err error, m messages) error {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), m.fallback,
			"path", c.Path(),
			"error", err,
		)
	}
	return c.JSON(status, Error{Code: status, Message: messageOf(err, m)})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// mismatchMessage names the code a driver got wrong.
func mismatchMessage(channel services.Channel) string {
	switch channel {
	case services.ChannelRedemption:
		return "Redemption code mismatch"
	case services.ChannelPOS:
		return "POS delivery code mismatch"
	case services.ChannelTransfer:
		return "Transfer delivery code mismatch"
	default:
		return "Verification code mismatch"
	}
}
