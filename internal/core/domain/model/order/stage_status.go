package order

import (
	"fmt"

	"workorders/internal/pkg/errs"
)

// StageStatus is the state of a single stage.
//
//	Pending ──start──> InProgress ──complete──> Completed
//
// No transition leaves Completed and none skips InProgress.
type StageStatus int

const (
	StageUnknown StageStatus = iota
	StagePending
	StageInProgress
	StageCompleted
)

func getStageStatusStrings() map[StageStatus]string {
	return map[StageStatus]string{
		StageUnknown:    "Unknown",
		StagePending:    "Pending",
		StageInProgress: "InProgress",
		StageCompleted:  "Completed",
	}
}

func (s StageStatus) Validate() error {
	if s != StagePending && s != StageInProgress && s != StageCompleted {
		return errs.NewValueIsInvalidErrorWithCause("stage status is invalid", fmt.Errorf("%d is not a valid stage status", s))
	}
	return nil
}

func (s StageStatus) String() string {
	if str, ok := getStageStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ParseStageStatus is the inverse of String for valid stage statuses.
func ParseStageStatus(str string) (StageStatus, error) {
	for s, name := range getStageStatusStrings() {
		if name == str && s != StageUnknown {
			return s, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
		"stage status is invalid", fmt.Errorf("%q is not a valid stage status", str))
}

// Start transitions Pending to InProgress. Starting an InProgress or
// Completed stage is rejected.
func (s StageStatus) Start() (StageStatus, error) {
	if s != StagePending {
		return StageUnknown, errs.NewInvalidTransitionError("stage", s.String(), "start")
	}
	return StageInProgress, nil
}

// Complete transitions InProgress to Completed. A Pending stage was never
// started and a Completed one is final, so both are rejected.
func (s StageStatus) Complete() (StageStatus, error) {
	if s != StageInProgress {
		return StageUnknown, errs.NewInvalidTransitionError("stage", s.String(), "complete")
	}
	return StageCompleted, nil
}
