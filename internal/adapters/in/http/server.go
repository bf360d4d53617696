package http

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Use case ports the server depends on. The handlers in commands and queries
// satisfy them.
type (
	ConfirmPaymentHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmPaymentCommand) (order.PaymentStatus, error)
	}

	ConfirmDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmDeliveryCommand) error
	}

	CheckoutHandler interface {
		Handle(ctx context.Context, cmd commands.CheckoutCommand) (commands.CheckoutResult, error)
	}

	ApplyGatewayChargeHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyGatewayChargeCommand) (commands.ChargeOutcome, error)
	}

	ReconcilePaymentHandler interface {
		Handle(ctx context.Context, cmd commands.ReconcilePaymentCommand) commands.ReconcileResult
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}

	GetPendingDeliveriesHandler interface {
		Handle(
			ctx context.Context,
			query queries.GetPendingDeliveriesQuery,
		) ([]queries.GetPendingDeliveriesQueryResponse, error)
	}

	// WebhookVerifier authenticates a raw gateway callback body.
	WebhookVerifier interface {
		Verify(signature string, body []byte) error
	}

	// ReplayGuard suppresses webhook deliveries already being processed.
	ReplayGuard interface {
		Claim(key string) bool
		Release(key string)
	}
)

// Handlers groups every use case the server exposes.
type Handlers struct {
	ConfirmPayment       ConfirmPaymentHandler
	ConfirmDelivery      ConfirmDeliveryHandler
	Checkout             CheckoutHandler
	ApplyGatewayCharge   ApplyGatewayChargeHandler
	ReconcilePayment     ReconcilePaymentHandler
	GetOrder             GetOrderHandler
	GetPendingDeliveries GetPendingDeliveriesHandler
}

// Server handles HTTP requests and coordinates between the wire format and
// the application use cases.
type Server struct {
	handlers Handlers
	verifier WebhookVerifier
	replay   ReplayGuard
	logger   *slog.Logger
}

// NewServer creates a server over the given use cases.
func NewServer(handlers Handlers, verifier WebhookVerifier, replay ReplayGuard, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		verifier: verifier,
		replay:   replay,
		logger:   logger.With("component", "http"),
	}
}

// RouterOptions tunes the middleware chain.
type RouterOptions struct {
	// VerificationRateLimit caps requests per second and client IP on the
	// routes that accept verification codes. Zero disables the limiter.
	VerificationRateLimit float64
	VerificationBurst     int
}

// NewRouter builds the echo instance with every route registered.
func NewRouter(s *Server, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			s.logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")
	api.POST("/checkout/pay-now", s.CheckoutPayNow)
	api.POST("/checkout/pay-on-delivery", s.CheckoutPayOnDelivery)
	api.GET("/orders/pending-deliveries", s.GetPendingDeliveries)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/paystack/webhook", s.PaystackWebhook)

	var limit []echo.MiddlewareFunc
	if opts.VerificationRateLimit > 0 {
		store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(opts.VerificationRateLimit),
			Burst: opts.VerificationBurst,
		})
		limit = append(limit, middleware.RateLimiter(store))
	}
	api.PATCH("/orders/:orderId/payment-status", s.ConfirmPayment, limit...)
	api.PATCH("/orders/:orderId/deliver", s.ConfirmDelivery, limit...)

	return e
}
