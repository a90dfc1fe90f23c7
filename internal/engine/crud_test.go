package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/registry"
	"github.com/dhruvkb/pennyflow/internal/store"
)

func validInput() Input {
	return Input{
		Date:     time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		Category: "Food",
		Type:     model.TypeExpense,
		Amount:   42.5,
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("expense amount is stored negative", func(t *testing.T) {
		e := newTestEngine(t)

		txn, err := e.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, -42.5, txn.Amount)
		assert.Equal(t, model.TypeExpense, txn.Type())
		assert.Equal(t, fixedNow, txn.CreatedAt)
	})

	t.Run("income amount is stored positive", func(t *testing.T) {
		e := newTestEngine(t)

		in := validInput()
		in.Category = "Salary"
		in.Type = model.TypeIncome
		txn, err := e.Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, 42.5, txn.Amount)
		assert.Equal(t, model.TypeIncome, txn.Type())
	})

	t.Run("chosen day keeps the current time of day", func(t *testing.T) {
		e := newTestEngine(t)

		txn, err := e.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, 10, txn.Date.Day())
		assert.Equal(t, fixedNow.Hour(), txn.Date.Hour())
	})

	t.Run("ids are unique under a frozen clock", func(t *testing.T) {
		e := newTestEngine(t)

		first, err := e.Create(ctx, validInput())
		require.NoError(t, err)
		second, err := e.Create(ctx, validInput())
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("validation failures", func(t *testing.T) {
		e := newTestEngine(t)

		tests := []struct {
			name   string
			mutate func(*Input)
		}{
			{"zero amount", func(in *Input) { in.Amount = 0 }},
			{"negative amount", func(in *Input) { in.Amount = -5 }},
			{"empty category", func(in *Input) { in.Category = "" }},
			{"unregistered category", func(in *Input) { in.Category = "Yacht Maintenance" }},
			{"category of the wrong sign", func(in *Input) { in.Category = "Salary" }},
			{"zero date", func(in *Input) { in.Date = time.Time{} }},
			{"unknown type", func(in *Input) { in.Type = "transfer" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := validInput()
				tt.mutate(&in)
				_, err := e.Create(ctx, in)
				assert.ErrorIs(t, err, common.ErrValidation)
			})
		}
	})
}

func TestGetUpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns the stored transaction", func(t *testing.T) {
		e := newTestEngine(t)

		created, err := e.Create(ctx, validInput())
		require.NoError(t, err)

		got, err := e.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("get unknown id", func(t *testing.T) {
		e := newTestEngine(t)
		_, err := e.Get(ctx, 404)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("update preserves id and creation time", func(t *testing.T) {
		e := newTestEngine(t)

		created, err := e.Create(ctx, validInput())
		require.NoError(t, err)

		in := validInput()
		in.Amount = 99
		in.Description = "team lunch"
		updated, err := e.Update(ctx, created.ID, in)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, -99.0, updated.Amount)
		assert.Equal(t, "team lunch", updated.Description)
	})

	t.Run("update unknown id", func(t *testing.T) {
		e := newTestEngine(t)
		_, err := e.Update(ctx, 404, validInput())
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("delete removes the transaction", func(t *testing.T) {
		e := newTestEngine(t)

		created, err := e.Create(ctx, validInput())
		require.NoError(t, err)
		require.NoError(t, e.Delete(ctx, created.ID))

		_, err = e.Get(ctx, created.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		e := newTestEngine(t)
		assert.NoError(t, e.Delete(ctx, 404))
	})
}

func TestEditSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("hand-off through the edit slot", func(t *testing.T) {
		e := newTestEngine(t)

		created, err := e.Create(ctx, validInput())
		require.NoError(t, err)

		staged, err := e.BeginEdit(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, staged.ID)

		taken, found, err := e.TakeEditing(ctx)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, created.ID, taken.ID)

		// The slot is consumed on take.
		_, found, err = e.TakeEditing(ctx)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("begin edit of unknown id", func(t *testing.T) {
		e := newTestEngine(t)
		_, err := e.BeginEdit(ctx, 404)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	incoming := []model.Transaction{
		{Date: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), Category: "Salary", Amount: 500},
		{Date: time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC), Category: "Food", Amount: -30},
	}

	t.Run("replace swaps the whole collection", func(t *testing.T) {
		e := newTestEngine(t)

		_, err := e.Create(ctx, validInput())
		require.NoError(t, err)

		count, err := e.Import(ctx, incoming, true)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		all, err := e.Transactions(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("append keeps existing transactions", func(t *testing.T) {
		e := newTestEngine(t)

		_, err := e.Create(ctx, validInput())
		require.NoError(t, err)

		count, err := e.Import(ctx, incoming, false)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		all, err := e.Transactions(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("assigned ids are unique", func(t *testing.T) {
		e := newTestEngine(t)

		_, err := e.Import(ctx, incoming, true)
		require.NoError(t, err)

		all, err := e.Transactions(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.NotEqual(t, all[0].ID, all[1].ID)
	})

	t.Run("unknown categories get registered", func(t *testing.T) {
		s := store.NewMemoryStore()
		b := bus.New()
		reg := registry.New(s, b)
		e := New(s, b, reg).WithClock(func() time.Time { return fixedNow })

		_, err := e.Import(ctx, []model.Transaction{
			{Date: time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC), Category: "Uncategorized", Amount: -12},
			{Date: time.Date(2025, time.May, 4, 0, 0, 0, 0, time.UTC), Category: "Bank Fees", Amount: -4},
		}, false)
		require.NoError(t, err)

		registered, err := reg.Contains(ctx, model.KindExpense, "Uncategorized")
		require.NoError(t, err)
		assert.True(t, registered)

		// The imported record must survive a round-trip through validation.
		all, err := e.Transactions(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		_, err = e.Update(ctx, all[0].ID, Input{
			Date:     all[0].Date,
			Category: all[0].Category,
			Type:     model.TypeExpense,
			Amount:   15,
		})
		assert.NoError(t, err)
	})

	t.Run("remove all leaves an empty collection", func(t *testing.T) {
		e := newTestEngine(t)

		_, err := e.Import(ctx, incoming, true)
		require.NoError(t, err)
		require.NoError(t, e.RemoveAll(ctx))

		all, err := e.Transactions(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
