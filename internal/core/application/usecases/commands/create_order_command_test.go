package commands_test

import (
	"testing"

	"workorders/internal/core/application/usecases/commands"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, by := kernel.NewUUID(), kernel.NewUUID()

		cmd, err := commands.NewCreateOrderCommand(id, "Shipment", "Acme", by)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, id, cmd.OrderID())
		assert.Equal(t, "Shipment", cmd.OrderName())
		assert.Equal(t, "Acme", cmd.ClientName())
		assert.Equal(t, by, cmd.CreatedBy())
	})

	t.Run("blank names", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), " ", "", kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "orderName")
		assert.Contains(t, err.Error(), "clientName")
	})

	t.Run("invalid ids", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(kernel.UUID{}, "a", "b", kernel.UUID{})

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("zero value", func(t *testing.T) {
		var cmd commands.CreateOrderCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}

func TestNewStageCommands(t *testing.T) {
	orderID, actor := kernel.NewUUID(), kernel.NewUUID()

	start, err := commands.NewStartStageCommand(orderID, 3, actor)
	require.NoError(t, err)
	require.NoError(t, start.Validate())
	assert.Equal(t, 3, start.StageIndex())
	assert.Equal(t, actor, start.ActorID())

	complete, err := commands.NewCompleteStageCommand(orderID, 3, actor)
	require.NoError(t, err)
	require.NoError(t, complete.Validate())
	assert.Equal(t, orderID, complete.OrderID())

	_, err = commands.NewStartStageCommand(kernel.UUID{}, 0, actor)
	require.Error(t, err)
	_, err = commands.NewCompleteStageCommand(orderID, 0, kernel.UUID{})
	require.Error(t, err)

	require.ErrorIs(t, commands.StartStageCommand{}.Validate(), commands.ErrStartStageCommandIsNotConstructed)
	require.ErrorIs(t, commands.CompleteStageCommand{}.Validate(), commands.ErrCompleteStageCommandIsNotConstructed)
}
