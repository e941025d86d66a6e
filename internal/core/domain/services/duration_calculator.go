package services

import (
	"fmt"
	"time"

	"workorders/internal/pkg/errs"
)

// MeasuredStage is the view of a stage the calculator needs.
type MeasuredStage interface {
	IsCompleted() bool
	Duration() *time.Duration
}

// DurationCalculator derives timing figures for stages and orders.
//
// Example usage:
//
//	calc := services.NewDurationCalculator()
//	d, err := calc.StageDuration(startedAt, finishedAt)
//	if err != nil {
//	    // clock skew or caller misuse
//	}
type DurationCalculator struct{}

// NewDurationCalculator creates a new DurationCalculator instance.
func NewDurationCalculator() DurationCalculator {
	return DurationCalculator{}
}

// StageDuration returns end - start. Both instants are required and end must
// not precede start.
func (DurationCalculator) StageDuration(start, end time.Time) (time.Duration, error) {
	if start.IsZero() {
		return 0, errs.NewValueIsRequiredError("startTime")
	}
	if end.IsZero() {
		return 0, errs.NewValueIsRequiredError("endTime")
	}
	if end.Before(start) {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"endTime",
			fmt.Errorf("%s is before start %s", end.Format(time.RFC3339Nano), start.Format(time.RFC3339Nano)),
		)
	}
	return end.Sub(start), nil
}

// TotalDuration sums the durations of the given stages. Stages without a
// duration contribute nothing; an empty slice yields 0.
func (DurationCalculator) TotalDuration(stages []MeasuredStage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		if d := s.Duration(); d != nil {
			total += *d
		}
	}
	return total
}

// ProgressPercent returns the share of completed stages in [0, 100].
func (DurationCalculator) ProgressPercent(stages []MeasuredStage) (float64, error) {
	if len(stages) == 0 {
		return 0, errs.NewValueIsRequiredErrorWithCause("stages", fmt.Errorf("progress of an order without stages"))
	}

	completed := 0
	for _, s := range stages {
		if s.IsCompleted() {
			completed++
		}
	}
	return 100 * float64(completed) / float64(len(stages)), nil
}
