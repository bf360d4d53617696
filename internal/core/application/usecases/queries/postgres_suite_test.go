package queries_test

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// postgresSuite starts one PostgreSQL container per suite and seeds orders
// through the real repository.
type postgresSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	orderRepo *orderrepo.GormOrderRepository
	seq       int
}

func (suite *postgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(orderrepo.Models()...))
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *postgresSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *postgresSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items").Error
	suite.Require().NoError(err)
}

// seed stores an order created at createdAt, optionally paid and delivered.
func (suite *postgresSuite) seed(
	method order.PaymentMethod,
	createdAt time.Time,
	paid, delivered bool,
) *order.Order {
	suite.seq++
	customer, err := order.NewCustomer(fmt.Sprintf("Customer %d", suite.seq), "c@example.com", "12 Marina")
	suite.Require().NoError(err)
	price, _ := kernel.NewMoney(125000)
	item, err := order.NewItem("beans-1kg", 2, price)
	suite.Require().NoError(err)
	code, err := order.NewRedemptionCode(fmt.Sprintf("QRY%05d", suite.seq))
	suite.Require().NoError(err)

	var codes order.GatewayCodes
	if method == order.PayOnDelivery {
		pos := fmt.Sprintf("%07d", suite.seq)
		codes.DeliveryPosCode = &pos
	}

	o, err := order.NewOrder(kernel.NewUUID(), customer, []order.Item{item}, method, code, codes, createdAt)
	suite.Require().NoError(err)
	if paid {
		suite.Require().NoError(o.MarkPaid(nil))
	}
	if delivered {
		suite.Require().NoError(o.MarkDelivered(createdAt.Add(time.Hour)))
	}
	suite.Require().NoError(suite.orderRepo.Add(context.Background(), o))
	return o
}
