package commands

import (
	"context"
	"log/slog"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/ports"
)

// StartStageCommandHandler starts a stage of an order. The order row is
// locked for the duration of the transaction, so two operators racing for the
// same stage are serialized and the loser gets errs.ErrInvalidTransition.
type StartStageCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	notifier   notifier
}

func NewStartStageCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	publisher ports.OrderChangedPublisher,
	logger *slog.Logger,
) StartStageCommandHandler {
	return StartStageCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   notifier{publisher: publisher, logger: logger.With("component", "start_stage_handler")},
	}
}

func (h *StartStageCommandHandler) Handle(ctx context.Context, cmd StartStageCommand) error {
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

	now := h.clock.Now()
	if err = o.StartStage(cmd.StageIndex(), cmd.ActorID(), now); err != nil {
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
		Kind:       ports.StageStarted,
		OrderID:    o.ID(),
		StageIndex: cmd.StageIndex(),
		ActorID:    &actor,
		OccurredAt: *stage.StartTime(),
		Order:      o,
	})
	return nil
}
