package order

import (
	"errors"
	"fmt"
	"strings"

	"workorders/internal/pkg/errs"
	"workorders/internal/pkg/guard"
)

// ErrStageTemplateIsNotConstructed is returned for a zero-value StageTemplate.
var ErrStageTemplateIsNotConstructed = errors.New("StageTemplate must be created via NewStageTemplate constructor")

// DefaultStageNames is the processing sequence used when a deployment does not
// configure its own.
var DefaultStageNames = []string{
	"Invoys",
	"Zayavka",
	"TIR-SMR",
	"ST-1",
	"FITO",
	"Deklaratsiya",
	"Tekshirish",
	"Topshirildi",
}

// StageTemplate is the immutable, ordered list of stage names every new order
// is built from. When sequential is set, orders created from it only allow a
// stage to start after all earlier stages completed.
type StageTemplate struct {
	names      []string
	sequential bool
	guard      guard.ConstructorGuard
}

// NewStageTemplate validates names (non-empty list, no blank or duplicate
// entries) and copies them so later changes to the slice have no effect.
func NewStageTemplate(names []string, sequential bool) (StageTemplate, error) {
	if len(names) == 0 {
		return StageTemplate{}, errs.NewValueIsRequiredError("stage template")
	}

	seen := make(map[string]struct{}, len(names))
	copied := make([]string, 0, len(names))
	var problems []error
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause(
				"stage name", fmt.Errorf("entry %d is blank", i)))
			continue
		}
		if _, dup := seen[name]; dup {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"stage name", fmt.Errorf("%q appears more than once", name)))
			continue
		}
		seen[name] = struct{}{}
		copied = append(copied, name)
	}
	if err := errors.Join(problems...); err != nil {
		return StageTemplate{}, err
	}

	return StageTemplate{
		names:      copied,
		sequential: sequential,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// DefaultStageTemplate returns the template built from DefaultStageNames.
func DefaultStageTemplate() StageTemplate {
	t, err := NewStageTemplate(DefaultStageNames, false)
	if err != nil {
		panic(err)
	}
	return t
}

func (t StageTemplate) Validate() error {
	return t.guard.Validate(ErrStageTemplateIsNotConstructed)
}

// Names returns a copy of the stage names in processing order.
func (t StageTemplate) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t StageTemplate) Len() int {
	return len(t.names)
}

func (t StageTemplate) Sequential() bool {
	return t.sequential
}
