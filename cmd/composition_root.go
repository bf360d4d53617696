package cmd

import (
	"fmt"
	"log/slog"

	httpadapter "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/paystack"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	gateway    *paystack.Client
	verifier   *paystack.WebhookVerifier
	logger     *slog.Logger
}

// NewCompositionRoot fails when the gateway cannot be configured.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	gateway, err := paystack.NewClient(paystack.Config{
		SecretKey:      configs.PaystackSecretKey,
		BaseURL:        configs.PaystackBaseURL,
		Timeout:        configs.PaystackTimeout,
		VerifyCacheTTL: configs.PaystackVerifyCacheTTL,
	})
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("paystack client: %w", err)
	}
	verifier, err := paystack.NewWebhookVerifier(configs.PaystackWebhookSecret)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("paystack webhook verifier: %w", err)
	}

	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		gateway:    gateway,
		verifier:   verifier,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	return commands.NewCheckoutCommandHandler(c.orderUoWFactory(), c.gateway, nil, nil)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory(), nil)
}

func (c *CompositionRoot) CreateApplyGatewayChargeCommandHandler() commands.ApplyGatewayChargeCommandHandler {
	return commands.NewApplyGatewayChargeCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateReconcilePaymentCommandHandler() commands.ReconcilePaymentCommandHandler {
	return commands.NewReconcilePaymentCommandHandler(c.orderUoWFactory(), c.gateway, c.logger)
}

func (c *CompositionRoot) CreateSweepPendingPaymentsCommandHandler() commands.SweepPendingPaymentsCommandHandler {
	return commands.NewSweepPendingPaymentsCommandHandler(
		c.orderUoWFactory(),
		c.CreateReconcilePaymentCommandHandler(),
		nil,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingDeliveriesQueryHandler() queries.GetPendingDeliveriesQueryHandler {
	return queries.NewGetPendingDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		httpadapter.Handlers{
			ConfirmPayment:       c.CreateConfirmPaymentCommandHandler(),
			ConfirmDelivery:      c.CreateConfirmDeliveryCommandHandler(),
			Checkout:             c.CreateCheckoutCommandHandler(),
			ApplyGatewayCharge:   c.CreateApplyGatewayChargeCommandHandler(),
			ReconcilePayment:     c.CreateReconcilePaymentCommandHandler(),
			GetOrder:             c.CreateGetOrderQueryHandler(),
			GetPendingDeliveries: c.CreateGetPendingDeliveriesQueryHandler(),
		},
		c.verifier,
		paystack.NewReplayGuard(c.configs.WebhookReplayTTL),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRouterOptions() httpadapter.RouterOptions {
	return httpadapter.RouterOptions{
		VerificationRateLimit: c.configs.VerificationRateLimit,
		VerificationBurst:     c.configs.VerificationBurst,
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewPaymentReconciliationJob(
			c.CreateSweepPendingPaymentsCommandHandler(),
			jobs.ReconciliationSettings{
				Schedule:  c.configs.ReconcileSchedule,
				Grace:     c.configs.ReconcileGrace,
				BatchSize: c.configs.ReconcileBatchSize,
				Timeout:   c.configs.ReconcileTimeout,
			},
			c.logger,
		),
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
