package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/paystack"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "sk_test_webhook"

type MockConfirmPayment struct{ mock.Mock }

func (m *MockConfirmPayment) Handle(ctx context.Context, cmd commands.ConfirmPaymentCommand) (order.PaymentStatus, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(order.PaymentStatus), args.Error(1)
}

type MockConfirmDelivery struct{ mock.Mock }

func (m *MockConfirmDelivery) Handle(ctx context.Context, cmd commands.ConfirmDeliveryCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockCheckout struct{ mock.Mock }

func (m *MockCheckout) Handle(ctx context.Context, cmd commands.CheckoutCommand) (commands.CheckoutResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.CheckoutResult), args.Error(1)
}

type MockApplyCharge struct{ mock.Mock }

func (m *MockApplyCharge) Handle(ctx context.Context, cmd commands.ApplyGatewayChargeCommand) (commands.ChargeOutcome, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ChargeOutcome), args.Error(1)
}

type MockReconcile struct{ mock.Mock }

func (m *MockReconcile) Handle(ctx context.Context, cmd commands.ReconcilePaymentCommand) commands.ReconcileResult {
	return m.Called(ctx, cmd).Get(0).(commands.ReconcileResult)
}

type MockGetOrder struct{ mock.Mock }

func (m *MockGetOrder) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type MockGetPendingDeliveries struct{ mock.Mock }

func (m *MockGetPendingDeliveries) Handle(
	ctx context.Context,
	query queries.GetPendingDeliveriesQuery,
) ([]queries.GetPendingDeliveriesQueryResponse, error) {
	args := m.Called(ctx, query)
	rows, _ := args.Get(0).([]queries.GetPendingDeliveriesQueryResponse)
	return rows, args.Error(1)
}

type fixture struct {
	confirmPayment  *MockConfirmPayment
	confirmDelivery *MockConfirmDelivery
	checkout        *MockCheckout
	applyCharge     *MockApplyCharge
	reconcile       *MockReconcile
	getOrder        *MockGetOrder
	pending         *MockGetPendingDeliveries
	verifier        *paystack.WebhookVerifier

	router *echo.Echo
}

func newFixture(t *testing.T, opts httpadapter.RouterOptions) *fixture {
	t.Helper()

	verifier, err := paystack.NewWebhookVerifier(webhookSecret)
	require.NoError(t, err)

	f := &fixture{
		confirmPayment:  new(MockConfirmPayment),
		confirmDelivery: new(MockConfirmDelivery),
		checkout:        new(MockCheckout),
		applyCharge:     new(MockApplyCharge),
		reconcile:       new(MockReconcile),
		getOrder:        new(MockGetOrder),
		pending:         new(MockGetPendingDeliveries),
		verifier:        verifier,
	}

	server := httpadapter.NewServer(
		httpadapter.Handlers{
			ConfirmPayment:       f.confirmPayment,
			ConfirmDelivery:      f.confirmDelivery,
			Checkout:             f.checkout,
			ApplyGatewayCharge:   f.applyCharge,
			ReconcilePayment:     f.reconcile,
			GetOrder:             f.getOrder,
			GetPendingDeliveries: f.pending,
		},
		verifier,
		paystack.NewReplayGuard(time.Minute),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	f.router = httpadapter.NewRouter(server, opts)

	t.Cleanup(func() {
		f.confirmPayment.AssertExpectations(t)
		f.confirmDelivery.AssertExpectations(t)
		f.checkout.AssertExpectations(t)
		f.applyCharge.AssertExpectations(t)
		f.reconcile.AssertExpectations(t)
		f.getOrder.AssertExpectations(t)
		f.pending.AssertExpectations(t)
	})
	return f
}

func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) patch(path, body string) *httptest.ResponseRecorder {
	return f.do(http.MethodPatch, path, body)
}
