package commands_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) NextIdentity() kernel.UUID {
	args := m.Called()
	return args.Get(0).(kernel.UUID)
}

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	if args.Error(0) == nil {
		o.AcceptChanges()
	}
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ExistsByRedemptionCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindBySettlementReference(ctx context.Context, reference string) (*order.Order, error) {
	args := m.Called(ctx, reference)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindAwaitingSettlement(ctx context.Context, createdBefore time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, createdBefore, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) InitializeTransaction(ctx context.Context, req ports.TransactionRequest) (ports.Transaction, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.Transaction), args.Error(1)
}

func (m *MockPaymentGateway) CreatePaymentRequest(ctx context.Context, req ports.PaymentRequestInput) (ports.PaymentRequest, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PaymentRequest), args.Error(1)
}

func (m *MockPaymentGateway) VerifyTransaction(ctx context.Context, reference string) (ports.Verification, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(ports.Verification), args.Error(1)
}

func (m *MockPaymentGateway) FindOrCreateCustomer(ctx context.Context, email, name string) (string, error) {
	args := m.Called(ctx, email, name)
	return args.String(0), args.Error(1)
}

// newUoW wires a factory that hands out a single unit of work bound to repo.
// Rollback is always expected because handlers defer it.
func newUoW(ctx context.Context, repo *MockOrderRepository) (*MockOrderUoWFactory, *MockOrderUoW) {
	uow := boundUoW(ctx, repo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow
}

func boundUoW(ctx context.Context, repo *MockOrderRepository) *MockOrderUoW {
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo)
	uow.On("Rollback", ctx).Return(nil).Once()
	return uow
}

// watchedUoW reports through open whether its transaction is in progress.
func watchedUoW(ctx context.Context, repo *MockOrderRepository, open *bool) *MockOrderUoW {
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Run(func(mock.Arguments) { *open = true }).Return(nil)
	uow.On("Commit", ctx).Run(func(mock.Arguments) { *open = false }).Return(nil)
	uow.On("Rollback", ctx).Run(func(mock.Arguments) { *open = false }).Return(nil)
	uow.On("OrderRepository").Return(repo)
	return uow
}

func ptr(s string) *string { return &s }

type orderState struct {
	method       order.PaymentMethod
	payment      order.PaymentStatus
	delivery     order.DeliveryStatus
	code         string
	posCode      *string
	transferCode *string
	reference    *string
}

func restoreOrder(t *testing.T, st orderState) *order.Order {
	t.Helper()
	if st.code == "" {
		st.code = "AB12CD34"
	}
	customer, err := order.NewCustomer("Ada", "ada@example.com", "12 Marina")
	require.NoError(t, err)
	price, err := kernel.NewMoney(250000)
	require.NoError(t, err)
	item, err := order.NewItem("rice-5kg", 1, price)
	require.NoError(t, err)
	code, err := order.NewRedemptionCode(st.code)
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:                   kernel.NewUUID(),
		Items:                []order.Item{item},
		Customer:             customer,
		TotalAmount:          price,
		PaymentMethod:        st.method,
		PaymentStatus:        st.payment,
		DeliveryStatus:       st.delivery,
		RedemptionCode:       code,
		DeliveryPosCode:      st.posCode,
		DeliveryTransferCode: st.transferCode,
		SettlementReference:  st.reference,
		CreatedAt:            time.Now().UTC(),
	})
	require.NoError(t, err)
	return o
}
