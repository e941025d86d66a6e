package order

import (
	"fmt"

	"workorders/internal/pkg/errs"
)

// Status is the derived lifecycle state of an order.
//
//	New ──> InProgress ──> Done
//
// New means no stage was ever started, InProgress that at least one was, and
// Done that every stage is Completed. Callers never set it; see DeriveStatus.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// New is the status of an order whose stages are all Pending.
	New

	// InProgress is the status once any stage has been started.
	InProgress

	// Done is the final status, reached when every stage is Completed.
	Done
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		New:        "New",
		InProgress: "InProgress",
		Done:       "Done",
	}
}

// Validate checks that s is one of New, InProgress or Done.
func (s Status) Validate() error {
	if s != New && s != InProgress && s != Done {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ParseStatus is the inverse of String for valid statuses.
func ParseStatus(str string) (Status, error) {
	for s, name := range getStatusStrings() {
		if name == str && s != Unknown {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", str))
}

// DeriveStatus computes the order status from its stages.
//
// An order with no started stage is New, an order whose stages are all
// Completed is Done and anything in between is InProgress. An empty stage
// list is New.
func DeriveStatus(stages []*Stage) Status {
	if len(stages) == 0 {
		return New
	}

	started, completed := 0, 0
	for _, s := range stages {
		switch s.Status() {
		case StageCompleted:
			completed++
			started++
		case StageInProgress:
			started++
		case StageUnknown, StagePending:
		}
	}

	switch {
	case completed == len(stages):
		return Done
	case started > 0:
		return InProgress
	default:
		return New
	}
}
