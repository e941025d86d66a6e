package breaker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/ports"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event ports.OrderChanged) error {
	return m.Called(ctx, event).Error(0)
}

func event() ports.OrderChanged {
	return ports.OrderChanged{
		Kind:       ports.StageStarted,
		OrderID:    kernel.NewUUID(),
		StageIndex: 0,
		OccurredAt: time.Now(),
	}
}

func newPublisher(next ports.OrderChangedPublisher) *Publisher {
	config := DefaultConfig("kafka")
	config.FailureThreshold = 2
	config.Timeout = time.Hour
	return New(next, config, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublisher_PassesThrough(t *testing.T) {
	next := &MockPublisher{}
	next.On("Publish", mock.Anything, mock.Anything).Return(nil)

	p := newPublisher(next)

	require.NoError(t, p.Publish(context.Background(), event()))
	assert.Equal(t, gobreaker.StateClosed, p.State())
	next.AssertNumberOfCalls(t, "Publish", 1)
}

func TestPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("broker unreachable")
	next := &MockPublisher{}
	next.On("Publish", mock.Anything, mock.Anything).Return(boom)

	p := newPublisher(next)

	assert.ErrorIs(t, p.Publish(context.Background(), event()), boom)
	assert.ErrorIs(t, p.Publish(context.Background(), event()), boom)
	assert.Equal(t, gobreaker.StateOpen, p.State())

	err := p.Publish(context.Background(), event())

	assert.ErrorIs(t, err, ErrCircuitOpen)
	next.AssertNumberOfCalls(t, "Publish", 2)
}

func TestPublisher_SuccessResetsFailureCount(t *testing.T) {
	boom := errors.New("broker unreachable")
	next := &MockPublisher{}
	next.On("Publish", mock.Anything, mock.Anything).Return(boom).Once()
	next.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()
	next.On("Publish", mock.Anything, mock.Anything).Return(boom).Once()

	p := newPublisher(next)

	_ = p.Publish(context.Background(), event())
	_ = p.Publish(context.Background(), event())
	_ = p.Publish(context.Background(), event())

	assert.Equal(t, gobreaker.StateClosed, p.State())
}
