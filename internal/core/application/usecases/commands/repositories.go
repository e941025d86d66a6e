// Package commands contains the write use cases: creating orders, starting and
// completing stages, and registering operators. Every handler validates its
// command, runs inside a unit of work and commits before notifying anyone.
package commands

import (
	"context"

	"workorders/internal/core/ports"
)

// Unit of Work views narrowed to what each handler touches.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	OperatorRepoFactory interface {
		OperatorRepository() ports.OperatorRepository
	}

	// OrderUoW is used by commands that only change orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OperatorUoW is used by commands that only change operators.
	OperatorUoW interface {
		TxManager
		OperatorRepoFactory
	}

	OperatorUoWFactory interface {
		Create() OperatorUoW
	}
)
