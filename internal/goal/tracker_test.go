package goal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/store"
)

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	s := store.NewMemoryStore()
	return New(s, bus.New()).WithClock(func() time.Time { return fixedNow })
}

func validInput() Input {
	return Input{
		TargetDate:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Name:          "Emergency Fund",
		TargetAmount:  500,
		CurrentAmount: 250,
	}
}

func TestCreateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and persists", func(t *testing.T) {
		tracker := newTestTracker(t)

		g, err := tracker.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, "Emergency Fund", g.Name)
		assert.Equal(t, fixedNow, g.CreatedAt)
		assert.InDelta(t, 50.0, g.ProgressPercent(), 1e-9)

		goals, err := tracker.List(ctx)
		require.NoError(t, err)
		assert.Len(t, goals, 1)
	})

	t.Run("validation failures", func(t *testing.T) {
		tracker := newTestTracker(t)

		tests := []struct {
			name   string
			mutate func(*Input)
		}{
			{"empty name", func(in *Input) { in.Name = "" }},
			{"zero target", func(in *Input) { in.TargetAmount = 0 }},
			{"negative target", func(in *Input) { in.TargetAmount = -100 }},
			{"negative current", func(in *Input) { in.CurrentAmount = -1 }},
			{"zero target date", func(in *Input) { in.TargetDate = time.Time{} }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := validInput()
				tt.mutate(&in)
				_, err := tracker.Create(ctx, in)
				assert.ErrorIs(t, err, common.ErrValidation)
			})
		}
	})

	t.Run("ids are unique under a frozen clock", func(t *testing.T) {
		tracker := newTestTracker(t)

		first, err := tracker.Create(ctx, validInput())
		require.NoError(t, err)
		second, err := tracker.Create(ctx, validInput())
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestGoalProgress(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	in := validInput()
	in.CurrentAmount = 600 // past the target
	g, err := tracker.Create(ctx, in)
	require.NoError(t, err)

	// Progress never reports past 100 percent.
	assert.Equal(t, 100.0, g.ProgressPercent())
}

func TestUpdateGoal(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves id and creation time", func(t *testing.T) {
		tracker := newTestTracker(t)

		created, err := tracker.Create(ctx, validInput())
		require.NoError(t, err)

		in := validInput()
		in.CurrentAmount = 400
		updated, err := tracker.Update(ctx, created.ID, in)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.InDelta(t, 80.0, updated.ProgressPercent(), 1e-9)
	})

	t.Run("unknown id", func(t *testing.T) {
		tracker := newTestTracker(t)
		_, err := tracker.Update(ctx, 404, validInput())
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteGoal(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	created, err := tracker.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, tracker.Delete(ctx, created.ID))
	_, err = tracker.Get(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, tracker.Delete(ctx, created.ID))
}

func TestRemoveAllGoals(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	_, err := tracker.Create(ctx, validInput())
	require.NoError(t, err)
	require.NoError(t, tracker.RemoveAll(ctx))

	goals, err := tracker.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}
