// Package jobs provides scheduled background tasks for the storefront.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// PaymentReconciliationJob sweeps pay-now orders that are still pending after
// a grace period and asks the payment gateway whether their hosted payment
// settled. It is the fallback for webhooks that were lost or rejected.
//
// # Usage
//
//	job := jobs.NewPaymentReconciliationJob(sweepHandler, jobs.ReconciliationSettings{
//		Schedule:  "0 * * * * *",
//		Grace:     15 * time.Minute,
//		BatchSize: 50,
//	}, logger)
//
//	jobManager := jobs.NewJobManager(job)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A sweep that cannot read its candidates is logged and retried on the next
// tick. Failures on single orders are counted in the sweep summary; they never
// abort the batch. Overlapping ticks are skipped while a sweep is running.
package jobs
