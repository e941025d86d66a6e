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

// ErrOrderIsNotConstructed is returned when an Order instance was not created through
// NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Resolution is the precision every recorded instant is truncated to, so that
// stage durations are whole milliseconds and survive a database round trip.
const Resolution = time.Millisecond

// Order is the aggregate root tracking a client's work item through all of its
// stages to overall completion.
//
// Order follows these invariants:
//   - orderName and clientName are non-blank
//   - stages mirror the template it was created from, in processing order
//   - status always equals DeriveStatus(stages)
//   - completedAt and totalDuration are set iff status is Done
//
// The stage list is exclusively owned by the order; stages are only mutated
// through StartStage and CompleteStage.
type Order struct {
	id kernel.UUID

	orderName  string
	clientName string

	status Status
	stages []*Stage

	// sequential requires stage i-1 to be Completed before stage i can start
	sequential bool

	createdAt     time.Time
	completedAt   *time.Time
	totalDuration *time.Duration

	// version is the optimistic concurrency token maintained by repositories
	version int

	calc  services.DurationCalculator
	guard guard.ConstructorGuard
}

// NewOrder creates an order with one Pending stage per template entry.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), "Shipment 42", "Acme", order.DefaultStageTemplate(), clock.Now())
//	if errors.Is(err, errs.ErrValueIsRequired) {
//	    // blank order or client name
//	}
func NewOrder(id kernel.UUID, orderName, clientName string, template StageTemplate, createdAt time.Time) (*Order, error) {
	o := &Order{
		status: New,
		calc:   services.NewDurationCalculator(),
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderName(orderName),
		o.setClientName(clientName),
		o.setCreatedAt(createdAt),
		o.setStagesFromTemplate(template),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persistence. The stored status must agree
// with the one derived from the stages, and completion data must be present
// exactly when the order is Done.
func RestoreOrder(
	id kernel.UUID,
	orderName string,
	clientName string,
	status Status,
	stages []*Stage,
	sequential bool,
	createdAt time.Time,
	completedAt *time.Time,
	totalDuration *time.Duration,
	version int,
) (*Order, error) {
	o := &Order{
		sequential:    sequential,
		completedAt:   completedAt,
		totalDuration: totalDuration,
		version:       version,
		calc:          services.NewDurationCalculator(),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderName(orderName),
		o.setClientName(clientName),
		o.setCreatedAt(createdAt),
		o.setStages(stages),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if derived := DeriveStatus(o.stages); derived != status {
		return nil, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("stored status %s does not match stages (%s)", status, derived))
	}
	o.status = status

	done := status == Done
	if done != (completedAt != nil) || done != (totalDuration != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("order completion",
			fmt.Errorf("completedAt and totalDuration must be set iff the order is Done (status %s)", status))
	}
	if done && *totalDuration != o.calc.TotalDuration(o.measured()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("totalDuration",
			fmt.Errorf("%s is not the sum of stage durations", *totalDuration))
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) OrderName() string {
	return o.orderName
}

func (o *Order) ClientName() string {
	return o.clientName
}

func (o *Order) Status() Status {
	return o.status
}

// Stages returns the stages in processing order. The slice is a copy; the
// stages themselves expose no mutators.
func (o *Order) Stages() []*Stage {
	out := make([]*Stage, len(o.stages))
	copy(out, o.stages)
	return out
}

// Stage returns the stage at index or an ErrObjectNotFound error.
func (o *Order) Stage(index int) (*Stage, error) {
	if index < 0 || index >= len(o.stages) {
		return nil, errs.NewObjectNotFoundErrorWithCause("stage", index,
			errs.NewValueIsOutOfRangeError("stageIndex", index, 0, len(o.stages)-1))
	}
	return o.stages[index], nil
}

func (o *Order) Sequential() bool {
	return o.sequential
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// CompletedAt returns when the last stage completed, or nil before that.
func (o *Order) CompletedAt() *time.Time {
	return o.completedAt
}

// TotalDuration returns the sum of stage durations once the order is Done.
func (o *Order) TotalDuration() *time.Duration {
	return o.totalDuration
}

// Version returns the optimistic concurrency token of the persisted state.
func (o *Order) Version() int {
	return o.version
}

// BumpVersion is called by repositories after the order was written.
func (o *Order) BumpVersion() {
	o.version++
}

// ProgressPercent returns the share of completed stages in [0, 100].
func (o *Order) ProgressPercent() (float64, error) {
	return o.calc.ProgressPercent(o.measured())
}

// StartStage puts the stage at index InProgress, assigned to actorID.
//
// Business rules:
//   - index must address an existing stage (ErrObjectNotFound)
//   - the stage must be Pending; restarting an InProgress or Completed stage
//     fails with ErrInvalidTransition
//   - for sequential orders every earlier stage must be Completed
//
// On success the order is InProgress.
func (o *Order) StartStage(index int, actorID kernel.UUID, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	stage, err := o.Stage(index)
	if err != nil {
		return err
	}

	if err = errors.Join(actorID.Validate(), requireInstant("startTime", at)); err != nil {
		return err
	}

	if o.sequential {
		if err = o.checkPredecessorsCompleted(stage); err != nil {
			return err
		}
	}

	if err = stage.start(actorID, normalize(at)); err != nil {
		return err
	}

	o.status = DeriveStatus(o.stages)
	return nil
}

// CompleteStage marks the InProgress stage at index Completed and records its
// duration. When it was the last open stage the order becomes Done and its
// completion time and total duration are fixed.
//
// Completing a Pending (never started) or an already Completed stage fails
// with ErrInvalidTransition, so an order that is Done is never recomputed.
func (o *Order) CompleteStage(index int, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	stage, err := o.Stage(index)
	if err != nil {
		return err
	}

	if err = requireInstant("endTime", at); err != nil {
		return err
	}

	at = normalize(at)
	if err = stage.complete(at, o.calc); err != nil {
		return err
	}

	o.status = DeriveStatus(o.stages)
	if o.status == Done {
		completedAt := at
		total := o.calc.TotalDuration(o.measured())
		o.completedAt = &completedAt
		o.totalDuration = &total
	}
	return nil
}

func (o *Order) checkPredecessorsCompleted(stage *Stage) error {
	for _, prev := range o.stages[:stage.Position()] {
		if !prev.IsCompleted() {
			return errs.NewInvalidTransitionErrorWithCause(stage.String(), stage.Status().String(), "start",
				fmt.Errorf("%s is %s", prev, prev.Status()))
		}
	}
	return nil
}

func (o *Order) measured() []services.MeasuredStage {
	out := make([]services.MeasuredStage, len(o.stages))
	for i, s := range o.stages {
		out[i] = s
	}
	return out
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("orderName")
	}
	o.orderName = name
	return nil
}

func (o *Order) setClientName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("clientName")
	}
	o.clientName = name
	return nil
}

func (o *Order) setCreatedAt(at time.Time) error {
	if err := requireInstant("createdAt", at); err != nil {
		return err
	}
	o.createdAt = normalize(at)
	return nil
}

func (o *Order) setStagesFromTemplate(template StageTemplate) error {
	if err := template.Validate(); err != nil {
		return err
	}

	stages := make([]*Stage, 0, template.Len())
	for i, name := range template.Names() {
		s, err := NewStage(i, name)
		if err != nil {
			return err
		}
		stages = append(stages, s)
	}

	o.stages = stages
	o.sequential = template.Sequential()
	return nil
}

func (o *Order) setStages(stages []*Stage) error {
	if len(stages) == 0 {
		return errs.NewValueIsRequiredError("stages")
	}
	for i, s := range stages {
		if err := s.Validate(); err != nil {
			return err
		}
		if s.Position() != i {
			return errs.NewValueIsInvalidErrorWithCause("stages",
				fmt.Errorf("stage at index %d has position %d", i, s.Position()))
		}
	}
	o.stages = append([]*Stage(nil), stages...)
	return nil
}

func requireInstant(name string, at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func normalize(at time.Time) time.Time {
	return at.UTC().Truncate(Resolution)
}
