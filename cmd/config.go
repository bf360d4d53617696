package cmd

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/pkg/errs"

	"github.com/caarlos0/env/v9"
	"github.com/robfig/cron/v3"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:""`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName      string `env:"DB_NAME" envDefault:"storefront"`
	DBSslMode   string `env:"DB_SSLMODE" envDefault:"disable"`

	PaystackSecretKey      string        `env:"PAYSTACK_SECRET_KEY"`
	PaystackWebhookSecret  string        `env:"PAYSTACK_WEBHOOK_SECRET"`
	PaystackBaseURL        string        `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
	PaystackTimeout        time.Duration `env:"PAYSTACK_TIMEOUT" envDefault:"10s"`
	PaystackVerifyCacheTTL time.Duration `env:"PAYSTACK_VERIFY_CACHE_TTL" envDefault:"10m"`
	WebhookReplayTTL       time.Duration `env:"WEBHOOK_REPLAY_TTL" envDefault:"10m"`

	VerificationRateLimit float64 `env:"VERIFICATION_RATE_LIMIT" envDefault:"1"`
	VerificationBurst     int     `env:"VERIFICATION_BURST" envDefault:"5"`

	ReconcileSchedule  string        `env:"RECONCILE_SCHEDULE" envDefault:"0 * * * * *"`
	ReconcileGrace     time.Duration `env:"RECONCILE_GRACE" envDefault:"15m"`
	ReconcileBatchSize int           `env:"RECONCILE_BATCH_SIZE" envDefault:"50"`
	ReconcileTimeout   time.Duration `env:"RECONCILE_TIMEOUT" envDefault:"45s"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort == "" {
		problems = append(problems, errs.NewValueIsRequiredError("HTTP_PORT"))
	}
	if c.PaystackSecretKey == "" {
		problems = append(problems, errs.NewValueIsRequiredError("PAYSTACK_SECRET_KEY"))
	}
	if c.PaystackWebhookSecret == "" {
		problems = append(problems, errs.NewValueIsRequiredError("PAYSTACK_WEBHOOK_SECRET"))
	}
	if c.PaystackTimeout <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("PAYSTACK_TIMEOUT"))
	}
	if c.WebhookReplayTTL <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("WEBHOOK_REPLAY_TTL"))
	}
	if c.VerificationRateLimit < 0 {
		problems = append(problems, errs.NewValueIsInvalidError("VERIFICATION_RATE_LIMIT"))
	}
	if c.VerificationRateLimit > 0 && c.VerificationBurst < 1 {
		problems = append(problems, errs.NewValueIsInvalidError("VERIFICATION_BURST"))
	}
	if c.ReconcileBatchSize < 1 {
		problems = append(problems, errs.NewValueIsInvalidError("RECONCILE_BATCH_SIZE"))
	}
	if c.ReconcileGrace < 0 {
		problems = append(problems, errs.NewValueIsInvalidError("RECONCILE_GRACE"))
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.ReconcileSchedule); err != nil {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("RECONCILE_SCHEDULE", err))
	}
	return errors.Join(problems...)
}

// PgDSN returns DatabaseURL when set, otherwise a DSN built from the parts.
func (c Config) PgDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%v port=%v user=%v password=%v dbname=%v sslmode=%v",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSslMode,
	)
}
