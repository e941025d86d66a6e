package queries

import (
	"errors"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/errs"
	"workorders/internal/pkg/guard"
)

var ErrGetStalledStagesQueryIsNotConstructed = errors.New(
	"GetStalledStagesQuery must be created via NewGetStalledStagesQuery constructor",
)

// GetStalledStagesQuery finds stages that were started before a cutoff and
// are still in progress.
type GetStalledStagesQuery struct {
	startedBefore time.Time
	guard         guard.ConstructorGuard
}

func NewGetStalledStagesQuery(startedBefore time.Time) (GetStalledStagesQuery, error) {
	if startedBefore.IsZero() {
		return GetStalledStagesQuery{}, errs.NewValueIsRequiredError("startedBefore")
	}
	return GetStalledStagesQuery{startedBefore: startedBefore, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStalledStagesQuery) Validate() error {
	return q.guard.Validate(ErrGetStalledStagesQueryIsNotConstructed)
}

func (q GetStalledStagesQuery) StartedBefore() time.Time {
	return q.startedBefore
}

// StalledStageView is an in-progress stage together with its order.
type StalledStageView struct {
	OrderID    kernel.UUID
	OrderName  string
	ClientName string
	StageIndex int
	StageName  string
	AssignedTo OperatorRef
	StartTime  time.Time
}
