package commands

import (
	"errors"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/guard"
)

var ErrCompleteStageCommandIsNotConstructed = errors.New(
	"CompleteStageCommand must be created via NewCompleteStageCommand constructor",
)

// CompleteStageCommand finishes a started stage. actorID is the operator
// reporting completion; it is only used for notifications.
type CompleteStageCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	stageIndex int
	actorID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteStageCommand(orderID kernel.UUID, stageIndex int, actorID kernel.UUID) (CompleteStageCommand, error) {
	c := CompleteStageCommand{
		stageIndex: stageIndex,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return CompleteStageCommand{}, err
	}
	c.orderID = orderID
	c.actorID = actorID

	return c, nil
}

func (c CompleteStageCommand) Validate() error {
	return c.guard.Validate(ErrCompleteStageCommandIsNotConstructed)
}

func (c CompleteStageCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CompleteStageCommand) StageIndex() int {
	return c.stageIndex
}

func (c CompleteStageCommand) ActorID() kernel.UUID {
	return c.actorID
}
