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

func newStoredOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "Shipment", "Acme", order.DefaultStageTemplate(), handlerNow.Add(-time.Hour))
	require.NoError(t, err)
	return o
}

func TestStartStageCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := newStoredOrder(t)
	actor := kernel.NewUUID()
	cmd, err := commands.NewStartStageCommand(o.ID(), 0, actor)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	publisher := new(MockPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, mock.MatchedBy(func(e ports.OrderChanged) bool {
			return e.Kind == ports.StageStarted && e.StageIndex == 0 && *e.ActorID == actor
		})).Return(nil).Once(),
	)
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartStageCommandHandler(factory, kernel.NewManualClock(handlerNow), publisher, discardLogger())
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	stage, _ := o.Stage(0)
	assert.Equal(t, order.StageInProgress, stage.Status())
	assert.Equal(t, handlerNow, *stage.StartTime())
	assert.Equal(t, order.InProgress, o.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestStartStageCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewStartStageCommand(id, 0, kernel.NewUUID())

	repo := new(MockOrderRepository)
	repo.On("GetForUpdate", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartStageCommandHandler(factory, kernel.NewManualClock(handlerNow), nil, discardLogger())
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestStartStageCommandHandler_Handle_DomainErrorsAreNotPersisted(t *testing.T) {
	testCases := []struct {
		name    string
		index   int
		prepare func(o *order.Order)
		wantErr error
	}{
		{
			name:    "index out of range",
			index:   8,
			wantErr: errs.ErrObjectNotFound,
		},
		{
			name:  "already started",
			index: 1,
			prepare: func(o *order.Order) {
				_ = o.StartStage(1, kernel.NewUUID(), handlerNow.Add(-time.Minute))
			},
			wantErr: errs.ErrInvalidTransition,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			o := newStoredOrder(t)
			if tc.prepare != nil {
				tc.prepare(o)
			}
			cmd, _ := commands.NewStartStageCommand(o.ID(), tc.index, kernel.NewUUID())

			repo := new(MockOrderRepository)
			repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
			uow := new(MockOrderUoW)
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("OrderRepository").Return(repo).Once()
			uow.On("Rollback", ctx).Return(nil).Once()
			factory := new(MockOrderUoWFactory)
			factory.On("Create").Return(uow).Once()
			publisher := new(MockPublisher)

			h := commands.NewStartStageCommandHandler(factory, kernel.NewManualClock(handlerNow), publisher, discardLogger())
			err := h.Handle(ctx, cmd)

			require.ErrorIs(t, err, tc.wantErr)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
			publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestStartStageCommandHandler_Handle_VersionConflict(t *testing.T) {
	ctx := t.Context()
	o := newStoredOrder(t)
	cmd, _ := commands.NewStartStageCommand(o.ID(), 0, kernel.NewUUID())

	repo := new(MockOrderRepository)
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(errs.NewVersionIsInvalidError("order")).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartStageCommandHandler(factory, kernel.NewManualClock(handlerNow), nil, discardLogger())
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	uow.AssertExpectations(t)
}
