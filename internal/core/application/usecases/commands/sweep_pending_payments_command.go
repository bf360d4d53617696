package commands

import (
	"errors"
	"math"
	"time"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrSweepPendingPaymentsCommandIsNotConstructed = errors.New(
	"SweepPendingPaymentsCommand must be created via NewSweepPendingPaymentsCommand constructor",
)

// SweepPendingPaymentsCommand reconciles a batch of pay-now orders whose
// hosted payment is older than grace and still pending.
type SweepPendingPaymentsCommand struct {
	grace time.Duration
	limit int

	guard guard.ConstructorGuard
}

func NewSweepPendingPaymentsCommand(grace time.Duration, limit int) (SweepPendingPaymentsCommand, error) {
	if grace < 0 {
		return SweepPendingPaymentsCommand{}, errs.NewValueIsOutOfRangeError("grace", grace, 0, time.Duration(math.MaxInt64))
	}
	if limit < 1 {
		return SweepPendingPaymentsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, math.MaxInt)
	}
	return SweepPendingPaymentsCommand{grace: grace, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c SweepPendingPaymentsCommand) Validate() error {
	return c.guard.Validate(ErrSweepPendingPaymentsCommandIsNotConstructed)
}

func (c SweepPendingPaymentsCommand) Grace() time.Duration { return c.grace }
func (c SweepPendingPaymentsCommand) Limit() int { return c.limit }
