package order_test

import (
	"testing"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ValidateAndString(t *testing.T) {
	for _, s := range []order.Status{order.New, order.InProgress, order.Done} {
		require.NoError(t, s.Validate())
		parsed, err := order.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	for _, s := range []order.Status{order.Unknown, order.Status(-1), order.Status(42)} {
		require.ErrorIs(t, s.Validate(), errs.ErrValueIsInvalid)
		assert.Equal(t, "Unknown", s.String())
	}

	_, err := order.ParseStatus("Ready")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	_, err = order.ParseStatus("Unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStageStatus_Transitions(t *testing.T) {
	t.Run("should follow pending, in progress, completed", func(t *testing.T) {
		s, err := order.StagePending.Start()
		require.NoError(t, err)
		assert.Equal(t, order.StageInProgress, s)

		s, err = s.Complete()
		require.NoError(t, err)
		assert.Equal(t, order.StageCompleted, s)
	})

	t.Run("should reject every other transition", func(t *testing.T) {
		for _, s := range []order.StageStatus{order.StageUnknown, order.StageInProgress, order.StageCompleted} {
			_, err := s.Start()
			require.ErrorIs(t, err, errs.ErrInvalidTransition, s.String())
		}
		for _, s := range []order.StageStatus{order.StageUnknown, order.StagePending, order.StageCompleted} {
			_, err := s.Complete()
			require.ErrorIs(t, err, errs.ErrInvalidTransition, s.String())
		}
	})

	t.Run("should parse and validate", func(t *testing.T) {
		for _, s := range []order.StageStatus{order.StagePending, order.StageInProgress, order.StageCompleted} {
			require.NoError(t, s.Validate())
			parsed, err := order.ParseStageStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
		require.Error(t, order.StageUnknown.Validate())
		_, err := order.ParseStageStatus("Done")
		require.Error(t, err)
	})
}

func TestDeriveStatus(t *testing.T) {
	alice := kernel.NewUUID()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(time.Second)
	d := time.Second

	pending, _ := order.NewStage(0, "a")
	started, _ := order.RestoreStage(1, "b", order.StageInProgress, &alice, &now, nil, nil)
	done, _ := order.RestoreStage(2, "c", order.StageCompleted, &alice, &now, &later, &d)

	assert.Equal(t, order.New, order.DeriveStatus(nil))
	assert.Equal(t, order.New, order.DeriveStatus([]*order.Stage{pending}))
	assert.Equal(t, order.InProgress, order.DeriveStatus([]*order.Stage{pending, started}))
	assert.Equal(t, order.InProgress, order.DeriveStatus([]*order.Stage{pending, done}))
	assert.Equal(t, order.Done, order.DeriveStatus([]*order.Stage{done, done}))
}
