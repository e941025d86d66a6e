package ports

import (
	"context"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
)

// ChangeKind names what happened to an order.
type ChangeKind string

const (
	OrderCreated   ChangeKind = "order_created"
	StageStarted   ChangeKind = "stage_started"
	StageCompleted ChangeKind = "stage_completed"
)

// NoStage is the StageIndex of notifications that concern the whole order.
const NoStage = -1

// OrderChanged is emitted after a committed create, start or complete.
type OrderChanged struct {
	Kind       ChangeKind
	OrderID    kernel.UUID
	StageIndex int
	ActorID    *kernel.UUID
	OccurredAt time.Time

	// Order is the state right after the change.
	Order *order.Order
}

// OrderChangedPublisher delivers OrderChanged notifications to the outside
// world. Delivery is best-effort: callers log a returned error and carry on.
type OrderChangedPublisher interface {
	Publish(ctx context.Context, event OrderChanged) error
}
