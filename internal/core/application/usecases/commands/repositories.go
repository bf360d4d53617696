// Package commands contains the storefront operations that modify order state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   repo := uow.OrderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// asTerminal turns a failed conditional write into the terminal-state error of
// the axis being written. Both axes have two states, so a stale pending
// pre-image means the stored value is already terminal.
func asTerminal(err error, terminal *order.TerminalStateError) error {
	if errors.Is(err, ports.ErrConcurrentModification) {
		return fmt.Errorf("%w: %w", terminal, err)
	}
	return err
}
