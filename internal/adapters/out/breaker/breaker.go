// Package breaker guards an order change publisher with a circuit breaker, so
// that requests stop waiting on a broker that keeps failing.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"workorders/internal/core/ports"

	"github.com/sony/gobreaker"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type Config struct {
	Name string
	// Consecutive failures that open the circuit.
	FailureThreshold uint32
	// How long the circuit stays open before a trial request.
	Timeout time.Duration
	// Trial requests allowed while half-open.
	MaxRequests uint32
}

func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// Publisher implements ports.OrderChangedPublisher. While the circuit is open
// Publish fails immediately with ErrCircuitOpen.
type Publisher struct {
	next   ports.OrderChangedPublisher
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
}

func New(next ports.OrderChangedPublisher, config Config, logger *slog.Logger) *Publisher {
	logger = logger.With("component", "circuit_breaker", "name", config.Name)

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	}

	return &Publisher{
		next:   next,
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, event ports.OrderChanged) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.next.Publish(ctx, event)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrCircuitOpen, p.cb.Name())
	}
	return err
}

func (p *Publisher) State() gobreaker.State {
	return p.cb.State()
}
