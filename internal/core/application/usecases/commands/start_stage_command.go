package commands

import (
	"errors"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/guard"
)

var ErrStartStageCommandIsNotConstructed = errors.New(
	"StartStageCommand must be created via NewStartStageCommand constructor",
)

// StartStageCommand assigns a stage to an operator and starts its clock.
// The stage index is checked against the order by the aggregate.
type StartStageCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	stageIndex int
	actorID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewStartStageCommand(orderID kernel.UUID, stageIndex int, actorID kernel.UUID) (StartStageCommand, error) {
	c := StartStageCommand{
		stageIndex: stageIndex,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), actorID.Validate()); err != nil {
		return StartStageCommand{}, err
	}
	c.orderID = orderID
	c.actorID = actorID

	return c, nil
}

func (c StartStageCommand) Validate() error {
	return c.guard.Validate(ErrStartStageCommandIsNotConstructed)
}

func (c StartStageCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c StartStageCommand) StageIndex() int {
	return c.stageIndex
}

func (c StartStageCommand) ActorID() kernel.UUID {
	return c.actorID
}
