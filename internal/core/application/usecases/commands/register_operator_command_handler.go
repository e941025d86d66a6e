package commands

import (
	"context"

	"workorders/internal/core/domain/model/operator"
)

// RegisterOperatorCommandHandler upserts the operator described by the command.
type RegisterOperatorCommandHandler struct {
	uowFactory OperatorUoWFactory
}

func NewRegisterOperatorCommandHandler(uowFactory OperatorUoWFactory) RegisterOperatorCommandHandler {
	return RegisterOperatorCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *RegisterOperatorCommandHandler) Handle(ctx context.Context, cmd RegisterOperatorCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	op, err := operator.NewOperator(cmd.OperatorID(), cmd.Username(), cmd.Role())
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

	if err = uow.OperatorRepository().Upsert(ctx, op); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
