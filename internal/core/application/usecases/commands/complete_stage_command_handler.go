package commands

import (
	"context"
	"log/slog"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/ports"
)

// CompleteStageCommandHandler completes a stage, which may in turn complete
// the whole order.
type CompleteStageCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	notifier   notifier
}

func NewCompleteStageCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	publisher ports.OrderChangedPublisher,
	logger *slog.Logger,
) CompleteStageCommandHandler {
	return CompleteStageCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   notifier{publisher: publisher, logger: logger.With("component", "complete_stage_handler")},
	}
}

func (h *CompleteStageCommandHandler) Handle(ctx context.Context, cmd CompleteStageCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.CompleteStage(cmd.StageIndex(), h.clock.Now()); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	actor := cmd.ActorID()
	stage, _ := o.Stage(cmd.StageIndex())
	h.notifier.notify(ctx, ports.OrderChanged{
		Kind:       ports.StageCompleted,
		OrderID:    o.ID(),
		StageIndex: cmd.StageIndex(),
		ActorID:    &actor,
		OccurredAt: *stage.EndTime(),
		Order:      o,
	})
	return nil
}
