package http

import (
	"net/http"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

type ConfirmPaymentRequest struct {
	PaymentMethod     string  `json:"paymentMethod"`
	VerificationCode  string  `json:"verificationCode"`
	TransferReference *string `json:"transferReference,omitempty"`
}

type ConfirmDeliveryRequest struct {
	VerificationType  string  `json:"verificationType"`
	VerificationCode  string  `json:"verificationCode"`
	MarkPaid          bool    `json:"markPaid"`
	TransferReference *string `json:"transferReference,omitempty"`
}

type OkResponse struct {
	Ok            bool   `json:"ok"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

type OrderLine struct {
	ProductRef string `json:"productRef"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
}

type Order struct {
	ID             string      `json:"id"`
	CustomerName   string      `json:"customerName"`
	PaymentMethod  string      `json:"paymentMethod"`
	PaymentStatus  string      `json:"paymentStatus"`
	DeliveryStatus string      `json:"deliveryStatus"`
	TotalAmount    int64       `json:"totalAmount"`
	Items          []OrderLine `json:"items"`
	DeliveredAt    *time.Time  `json:"deliveredAt,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

type PendingDelivery struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customerName"`
	CustomerAddress string    `json:"customerAddress"`
	PaymentMethod   string    `json:"paymentMethod"`
	PaymentStatus   string    `json:"paymentStatus"`
	TotalAmount     int64     `json:"totalAmount"`
	CreatedAt       time.Time `json:"createdAt"`
}

var notFound = Error{Code: http.StatusNotFound, Message: "Order not found"}

// ConfirmPayment handles PATCH /api/v1/orders/{orderId}/payment-status - a
// driver settles a pay-on-delivery order at the door.
func (s *Server) ConfirmPayment(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusNotFound, notFound)
	}

	var req ConfirmPaymentRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.PaymentMethod == "" || req.VerificationCode == "" {
		return badRequest(c, "Payment method and verification code are required")
	}
	channel, err := services.ParseChannel(req.PaymentMethod)
	if err != nil || !channel.SettlesPayment() {
		return badRequest(c, "Invalid payment method")
	}

	cmd, err := commands.NewConfirmPaymentCommand(orderID, channel, req.VerificationCode, req.TransferReference)
	if err != nil {
		return badRequest(c, err.Error())
	}

	status, err := s.handlers.ConfirmPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err, messages{
			invalidMethod: "Payment status update only allowed for pay on delivery orders",
			mismatch:      mismatchMessage(channel),
			noReference:   "Paystack reference is required for transfer payments",
			fallback:      "Failed to update payment status",
		})
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true, PaymentStatus: status.String()})
}

// ConfirmDelivery handles PATCH /api/v1/orders/{orderId}/deliver - a driver
// hands an order over.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusNotFound, notFound)
	}

	var req ConfirmDeliveryRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.VerificationType == "" || req.VerificationCode == "" {
		return badRequest(c, "Verification details are required")
	}
	channel, err := services.ParseChannel(req.VerificationType)
	if err != nil {
		return badRequest(c, "Unsupported verification type")
	}

	cmd, err := commands.NewConfirmDeliveryCommand(
		orderID,
		channel,
		req.VerificationCode,
		req.MarkPaid,
		req.TransferReference,
	)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err = s.handlers.ConfirmDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return s.respondError(c, err, messages{
			invalidMethod: "Invalid verification method",
			mismatch:      mismatchMessage(channel),
			noReference:   "Paystack reference missing",
			fallback:      "Failed to update order",
		})
	}

	return c.JSON(http.StatusOK, OkResponse{Ok: true})
}

// GetOrder handles GET /api/v1/orders/{orderId}. A pending order is first
// checked against the gateway; a gateway failure still serves the stored view.
func (s *Server) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusNotFound, notFound)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	view, err := s.handlers.GetOrder.Handle(ctx, query)
	if err != nil {
		return s.respondError(c, err, messages{fallback: "Failed to retrieve order"})
	}

	if view.PaymentStatus == order.PaymentPending.String() {
		reconcile, cmdErr := commands.NewReconcilePaymentCommand(orderID)
		if cmdErr == nil && s.handlers.ReconcilePayment.Handle(ctx, reconcile).Outcome == commands.ReconcileSettled {
			if refreshed, refreshErr := s.handlers.GetOrder.Handle(ctx, query); refreshErr == nil {
				view = refreshed
			}
		}
	}

	return c.JSON(http.StatusOK, toOrder(view))
}

// GetPendingDeliveries handles GET /api/v1/orders/pending-deliveries - the
// driver dashboard.
func (s *Server) GetPendingDeliveries(c echo.Context) error {
	limit, offset := queries.DefaultPendingDeliveriesLimit, 0
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).Int("offset", &offset).BindError(); err != nil {
		return badRequest(c, "limit and offset must be integers")
	}

	query, err := queries.NewGetPendingDeliveriesQuery(limit, offset)
	if err != nil {
		return badRequest(c, err.Error())
	}

	rows, err := s.handlers.GetPendingDeliveries.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err, messages{fallback: "Failed to retrieve pending deliveries"})
	}

	response := make([]PendingDelivery, len(rows))
	for i, row := range rows {
		response[i] = PendingDelivery{
			ID:              row.ID.String(),
			CustomerName:    row.CustomerName,
			CustomerAddress: row.CustomerAddress,
			PaymentMethod:   row.PaymentMethod,
			PaymentStatus:   row.PaymentStatus,
			TotalAmount:     row.TotalAmount,
			CreatedAt:       row.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

func toOrder(view queries.GetOrderQueryResponse) Order {
	lines := make([]OrderLine, len(view.Items))
	for i, item := range view.Items {
		lines[i] = OrderLine{
			ProductRef: item.ProductRef,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}
	return Order{
		ID:             view.ID.String(),
		CustomerName:   view.CustomerName,
		PaymentMethod:  view.PaymentMethod,
		PaymentStatus:  view.PaymentStatus,
		DeliveryStatus: view.DeliveryStatus,
		TotalAmount:    view.TotalAmount,
		Items:          lines,
		DeliveredAt:    view.DeliveredAt,
		CreatedAt:      view.CreatedAt,
	}
}
