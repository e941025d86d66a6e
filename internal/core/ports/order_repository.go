// Package ports defines the contracts between the core and its adapters:
// repositories, the unit of work and outbound notifications.
package ports

import (
	"context"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An order is always stored and loaded together with all of its stages.
type OrderRepository interface {
	// Add persists a new order and its stages.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a changed order. The write succeeds only if the stored
	// version still equals aggregate.Version(); otherwise it fails with
	// errs.ErrVersionIsInvalid. On success the aggregate's version is bumped.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order, or fails with errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order and locks its row until the surrounding
	// transaction ends, so concurrent stage transitions on the same order
	// are serialized.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
