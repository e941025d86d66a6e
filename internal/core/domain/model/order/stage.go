package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/services"
	"workorders/internal/pkg/errs"
	"workorders/internal/pkg/guard"
)

// ErrStageIsNotConstructed is returned for a Stage not built by NewStage or RestoreStage.
var ErrStageIsNotConstructed = errors.New("Stage must be created via NewStage constructor")

// Stage is one unit of work inside an order. It is owned by its Order and can
// only be mutated through the aggregate.
//
// Invariants:
//   - startTime is set iff status is InProgress or Completed
//   - endTime and duration are set iff status is Completed
//   - assignedTo is set iff startTime is set
type Stage struct {
	// position is the zero-based index in the order's processing sequence
	position int

	// name is copied from the template at order creation and never changes
	name string

	status StageStatus

	// assignedTo is a weak reference to the operator who started the stage
	assignedTo *kernel.UUID

	startTime *time.Time
	endTime   *time.Time
	duration  *time.Duration

	guard guard.ConstructorGuard
}

// NewStage creates a Pending stage at the given position.
func NewStage(position int, name string) (*Stage, error) {
	s := &Stage{
		status: StagePending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(s.setPosition(position), s.setName(name)); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreStage rebuilds a stage from persistence and re-checks its invariants.
func RestoreStage(
	position int,
	name string,
	status StageStatus,
	assignedTo *kernel.UUID,
	startTime *time.Time,
	endTime *time.Time,
	duration *time.Duration,
) (*Stage, error) {
	s, err := NewStage(position, name)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if assignedTo != nil {
		if err = assignedTo.Validate(); err != nil {
			return nil, err
		}
	}

	s.status = status
	s.assignedTo = assignedTo
	s.startTime = startTime
	s.endTime = endTime
	s.duration = duration

	if err = s.checkInvariants(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stage) Validate() error {
	if s == nil {
		return ErrStageIsNotConstructed
	}
	return s.guard.Validate(ErrStageIsNotConstructed)
}

func (s *Stage) Position() int {
	return s.position
}

func (s *Stage) Name() string {
	return s.name
}

func (s *Stage) Status() StageStatus {
	return s.status
}

// AssignedTo returns the operator who started the stage, or nil.
func (s *Stage) AssignedTo() *kernel.UUID {
	return s.assignedTo
}

func (s *Stage) StartTime() *time.Time {
	return s.startTime
}

func (s *Stage) EndTime() *time.Time {
	return s.endTime
}

// Duration returns endTime - startTime for a Completed stage, nil otherwise.
func (s *Stage) Duration() *time.Duration {
	return s.duration
}

func (s *Stage) IsCompleted() bool {
	return s.status == StageCompleted
}

func (s *Stage) String() string {
	return fmt.Sprintf("stage %d %q", s.position, s.name)
}

// start moves the stage to InProgress. Nothing is written unless every check passes.
func (s *Stage) start(actorID kernel.UUID, at time.Time) error {
	next, err := s.status.Start()
	if err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}

	startedAt := at
	s.status = next
	s.assignedTo = &actorID
	s.startTime = &startedAt
	return nil
}

// complete moves the stage to Completed and fixes its duration.
func (s *Stage) complete(at time.Time, calc services.DurationCalculator) error {
	next, err := s.status.Complete()
	if err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}

	d, err := calc.StageDuration(*s.startTime, at)
	if err != nil {
		return fmt.Errorf("%s: %w", s, err)
	}

	endedAt := at
	s.status = next
	s.endTime = &endedAt
	s.duration = &d
	return nil
}

func (s *Stage) checkInvariants() error {
	started := s.status == StageInProgress || s.status == StageCompleted
	completed := s.status == StageCompleted

	if started != (s.startTime != nil) {
		return errs.NewValueIsInvalidErrorWithCause(s.String(),
			fmt.Errorf("start time must be set iff the stage was started (status %s)", s.status))
	}
	if started != (s.assignedTo != nil) {
		return errs.NewValueIsInvalidErrorWithCause(s.String(),
			fmt.Errorf("operator must be set iff the stage was started (status %s)", s.status))
	}
	if completed != (s.endTime != nil) || completed != (s.duration != nil) {
		return errs.NewValueIsInvalidErrorWithCause(s.String(),
			fmt.Errorf("end time and duration must be set iff the stage is completed (status %s)", s.status))
	}
	if completed {
		expected, err := services.NewDurationCalculator().StageDuration(*s.startTime, *s.endTime)
		if err != nil {
			return err
		}
		if expected != *s.duration {
			return errs.NewValueIsInvalidErrorWithCause(s.String(),
				fmt.Errorf("duration %s does not match end - start %s", *s.duration, expected))
		}
	}
	return nil
}

func (s *Stage) setPosition(position int) error {
	if position < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stage position", fmt.Errorf("%d is negative", position))
	}
	s.position = position
	return nil
}

func (s *Stage) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("stage name")
	}
	s.name = name
	return nil
}
