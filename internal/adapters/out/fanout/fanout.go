// Package fanout delivers one order change notification to several
// publishers.
package fanout

import (
	"context"
	"errors"
	"fmt"

	"workorders/internal/core/ports"
)

// FailureRecorder is told about every publisher that failed.
type FailureRecorder interface {
	RecordPublishFailure(publisher string)
}

// Publisher implements ports.OrderChangedPublisher on top of named targets.
// Every target is tried; the failures are joined into the returned error.
type Publisher struct {
	targets  []target
	failures FailureRecorder
}

type target struct {
	name      string
	publisher ports.OrderChangedPublisher
}

func New(failures FailureRecorder) *Publisher {
	return &Publisher{failures: failures}
}

// Add registers a target and returns p for chaining. A nil publisher is ignored.
func (p *Publisher) Add(name string, publisher ports.OrderChangedPublisher) *Publisher {
	if publisher != nil {
		p.targets = append(p.targets, target{name: name, publisher: publisher})
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, event ports.OrderChanged) error {
	var errs []error
	for _, t := range p.targets {
		if err := t.publisher.Publish(ctx, event); err != nil {
			if p.failures != nil {
				p.failures.RecordPublishFailure(t.name)
			}
			errs = append(errs, fmt.Errorf("%s: %w", t.name, err))
		}
	}
	return errors.Join(errs...)
}
