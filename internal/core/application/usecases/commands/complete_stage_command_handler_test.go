package commands_test

import (
	"testing"
	"time"

	"workorders/internal/core/application/usecases/commands"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/core/ports"
	"workorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func completeHandlerWith(t *testing.T, o *order.Order, clock kernel.Clock, publisher ports.OrderChangedPublisher) (commands.CompleteStageCommandHandler, *MockOrderRepository, *MockOrderUoW) {
	t.Helper()
	ctx := t.Context()

	repo := new(MockOrderRepository)
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	return commands.NewCompleteStageCommandHandler(factory, clock, publisher, discardLogger()), repo, uow
}

func TestCompleteStageCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := newStoredOrder(t)
	actor := kernel.NewUUID()
	require.NoError(t, o.StartStage(2, actor, handlerNow))

	clock := kernel.NewManualClock(handlerNow)
	clock.Advance(5000 * time.Millisecond)

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.MatchedBy(func(e ports.OrderChanged) bool {
		return e.Kind == ports.StageCompleted && e.StageIndex == 2
	})).Return(nil).Once()

	h, repo, uow := completeHandlerWith(t, o, clock, publisher)
	repo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, _ := commands.NewCompleteStageCommand(o.ID(), 2, actor)
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	stage, _ := o.Stage(2)
	assert.Equal(t, order.StageCompleted, stage.Status())
	assert.Equal(t, 5000*time.Millisecond, *stage.Duration())
	assert.Equal(t, order.InProgress, o.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCompleteStageCommandHandler_Handle_LastStageCompletesOrder(t *testing.T) {
	ctx := t.Context()
	tpl, err := order.NewStageTemplate([]string{"Only"}, false)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "a", "b", tpl, handlerNow)
	require.NoError(t, err)
	require.NoError(t, o.StartStage(0, kernel.NewUUID(), handlerNow))

	clock := kernel.NewManualClock(handlerNow.Add(3 * time.Second))
	h, repo, uow := completeHandlerWith(t, o, clock, nil)
	repo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, _ := commands.NewCompleteStageCommand(o.ID(), 0, kernel.NewUUID())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, order.Done, o.Status())
	assert.Equal(t, 3*time.Second, *o.TotalDuration())
	assert.Equal(t, handlerNow.Add(3*time.Second), *o.CompletedAt())
}

func TestCompleteStageCommandHandler_Handle_NeverStarted(t *testing.T) {
	ctx := t.Context()
	o := newStoredOrder(t)

	h, repo, uow := completeHandlerWith(t, o, kernel.NewManualClock(handlerNow), nil)

	cmd, _ := commands.NewCompleteStageCommand(o.ID(), 4, kernel.NewUUID())
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
