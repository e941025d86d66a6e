package commands

import (
	"context"
	"log/slog"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/core/ports"
)

// CreateOrderCommandHandler creates an order with one Pending stage per
// template entry and announces it once committed.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	template   order.StageTemplate
	clock      kernel.Clock
	notifier   notifier
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	template order.StageTemplate,
	clock kernel.Clock,
	publisher ports.OrderChangedPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		template:   template,
		clock:      clock,
		notifier:   notifier{publisher: publisher, logger: logger.With("component", "create_order_handler")},
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()
	o, err := order.NewOrder(cmd.OrderID(), cmd.OrderName(), cmd.ClientName(), h.template, now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	actor := cmd.CreatedBy()
	h.notifier.notify(ctx, ports.OrderChanged{
		Kind:       ports.OrderCreated,
		OrderID:    o.ID(),
		StageIndex: ports.NoStage,
		ActorID:    &actor,
		OccurredAt: o.CreatedAt(),
		Order:      o,
	})
	return nil
}
