package commands

import (
	"context"
	"log/slog"

	"workorders/internal/core/ports"
)

// notifier publishes change notifications after a commit. Failures are
// logged and swallowed: the state change already happened.
type notifier struct {
	publisher ports.OrderChangedPublisher
	logger    *slog.Logger
}

func (n notifier) notify(ctx context.Context, event ports.OrderChanged) {
	if n.publisher == nil {
		return
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.WarnContext(ctx, "Failed to publish order change",
			"kind", event.Kind,
			"order_id", event.OrderID.String(),
			"stage_index", event.StageIndex,
			"error", err)
	}
}
