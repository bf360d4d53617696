package jobs

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReconciliationSchedule runs the sweep at second zero of every minute.
const DefaultReconciliationSchedule = "0 * * * * *"

// PendingPaymentSweeper is satisfied by commands.SweepPendingPaymentsCommandHandler.
type PendingPaymentSweeper interface {
	Handle(ctx context.Context, cmd commands.SweepPendingPaymentsCommand) (commands.SweepSummary, error)
}

// ReconciliationSettings controls which orders a sweep picks up and how often.
type ReconciliationSettings struct {
	Schedule  string
	Grace     time.Duration
	BatchSize int
	Timeout   time.Duration
}

// PaymentReconciliationJob periodically asks the gateway about pay-now orders
// that are still pending after the grace period.
type PaymentReconciliationJob struct {
	sweeper  PendingPaymentSweeper
	settings ReconciliationSettings
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPaymentReconciliationJob(
	sweeper PendingPaymentSweeper,
	settings ReconciliationSettings,
	logger *slog.Logger,
) *PaymentReconciliationJob {
	if settings.Schedule == "" {
		settings.Schedule = DefaultReconciliationSchedule
	}
	return &PaymentReconciliationJob{
		sweeper:  sweeper,
		settings: settings,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "payment_reconciliation_job"),
	}
}

// Start registers the sweep with the scheduler and starts it.
func (j *PaymentReconciliationJob) Start() error {
	cmd, err := commands.NewSweepPendingPaymentsCommand(j.settings.Grace, j.settings.BatchSize)
	if err != nil {
		return err
	}

	if _, err = j.cron.AddFunc(j.settings.Schedule, func() { j.Run(cmd) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job started", "schedule", j.settings.Schedule)
	return nil
}

// Run performs one sweep.
func (j *PaymentReconciliationJob) Run(cmd commands.SweepPendingPaymentsCommand) {
	ctx := context.Background()
	if j.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.settings.Timeout)
		defer cancel()
	}

	summary, err := j.sweeper.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment reconciliation sweep failed", "error", err)
		return
	}
	if summary.Checked > 0 {
		j.logger.InfoContext(ctx, "Payment reconciliation sweep finished",
			"checked", summary.Checked,
			"settled", summary.Settled,
			"unsettled", summary.Unsettled,
			"failed", summary.Failed,
		)
	}
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *PaymentReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job stopped")
}
