package http

import (
	"net/http"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

type CheckoutCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type CheckoutItem struct {
	ProductRef string `json:"productRef"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
}

type CheckoutRequest struct {
	Customer CheckoutCustomer `json:"customer"`
	Items    []CheckoutItem   `json:"items"`
}

// CheckoutResponse hands the storefront everything it shows the customer.
// Only the fields of the chosen payment method are set.
type CheckoutResponse struct {
	OrderID          string `json:"orderId"`
	RedemptionCode   string `json:"redemptionCode"`
	AccessCode       string `json:"accessCode,omitempty"`
	AuthorizationURL string `json:"authorizationUrl,omitempty"`
	Reference        string `json:"reference,omitempty"`
	PosCode          string `json:"posCode,omitempty"`
	TransferCode     string `json:"transferCode,omitempty"`
	InvoiceNumber    string `json:"invoiceNumber,omitempty"`
}

// CheckoutPayNow handles POST /api/v1/checkout/pay-now.
func (s *Server) CheckoutPayNow(c echo.Context) error {
	return s.checkout(c, order.PayNow)
}

// CheckoutPayOnDelivery handles POST /api/v1/checkout/pay-on-delivery.
func (s *Server) CheckoutPayOnDelivery(c echo.Context) error {
	return s.checkout(c, order.PayOnDelivery)
}

func (s *Server) checkout(c echo.Context, method order.PaymentMethod) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	lines := make([]commands.CheckoutLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = commands.CheckoutLine{
			ProductRef: item.ProductRef,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	cmd, err := commands.NewCheckoutCommand(method, req.Customer.Name, req.Customer.Email, req.Customer.Address, lines)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := s.handlers.Checkout.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.respondError(c, err, messages{fallback: "Failed to create order"})
	}

	return c.JSON(http.StatusCreated, CheckoutResponse{
		OrderID:          result.OrderID.String(),
		RedemptionCode:   result.RedemptionCode,
		AccessCode:       result.AccessCode,
		AuthorizationURL: result.AuthorizationURL,
		Reference:        result.Reference,
		PosCode:          result.PosCode,
		TransferCode:     result.TransferCode,
		InvoiceNumber:    result.InvoiceNumber,
	})
}
