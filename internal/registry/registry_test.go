package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/store"
)

func newTestRegistry(t *testing.T) (*Registry, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return New(s, bus.New()), s
}

func TestListSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	r, s := newTestRegistry(t)

	income, err := r.List(ctx, model.KindIncome)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultIncomeCategories, income)

	expense, err := r.List(ctx, model.KindExpense)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultExpenseCategories, expense)

	// The seed is persisted, not just returned.
	_, found, err := s.Get(ctx, store.KeyIncomeCategories)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAddCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("appends to the list", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		require.NoError(t, r.Add(ctx, model.KindExpense, "Subscriptions"))

		expense, err := r.List(ctx, model.KindExpense)
		require.NoError(t, err)
		assert.Equal(t, "Subscriptions", expense[len(expense)-1])
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		err := r.Add(ctx, model.KindExpense, "Food")
		assert.ErrorIs(t, err, common.ErrDuplicateCategory)
	})

	t.Run("same name is allowed on the other list", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		assert.NoError(t, r.Add(ctx, model.KindIncome, "Food"))
	})

	t.Run("rejects the empty name", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		err := r.Add(ctx, model.KindExpense, "")
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestRemoveCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("removes an unused category", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		require.NoError(t, r.Remove(ctx, model.KindExpense, "Food"))

		has, err := r.Contains(ctx, model.KindExpense, "Food")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("unknown name", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		err := r.Remove(ctx, model.KindExpense, "Yacht Maintenance")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("refused while a matching-sign transaction references it", func(t *testing.T) {
		r, s := newTestRegistry(t)

		transactions := []model.Transaction{{ID: 1, Category: "Food", Amount: -40}}
		require.NoError(t, store.SetJSON(ctx, s, store.KeyTransactions, transactions))

		err := r.Remove(ctx, model.KindExpense, "Food")
		assert.ErrorIs(t, err, common.ErrCategoryInUse)

		// The failed removal must not change the list.
		has, err := r.Contains(ctx, model.KindExpense, "Food")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("a reference of the opposite sign does not block removal", func(t *testing.T) {
		r, s := newTestRegistry(t)

		// An income transaction named Food does not pin the expense list entry.
		transactions := []model.Transaction{{ID: 1, Category: "Food", Amount: 40}}
		require.NoError(t, store.SetJSON(ctx, s, store.KeyTransactions, transactions))

		assert.NoError(t, r.Remove(ctx, model.KindExpense, "Food"))
	})
}

func TestCombined(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)

	// Put the same name on both lists; the union keeps one copy.
	require.NoError(t, r.Add(ctx, model.KindIncome, "Misc"))
	require.NoError(t, r.Add(ctx, model.KindExpense, "Misc"))

	combined, err := r.Combined(ctx)
	require.NoError(t, err)

	count := 0
	for _, name := range combined {
		if name == "Misc" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, combined, len(model.DefaultIncomeCategories)+len(model.DefaultExpenseCategories)+1)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()

	t.Run("swaps the whole list", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		require.NoError(t, r.Replace(ctx, model.KindIncome, []string{"Wages", "Dividends"}))

		income, err := r.List(ctx, model.KindIncome)
		require.NoError(t, err)
		assert.Equal(t, []string{"Wages", "Dividends"}, income)
	})

	t.Run("empty replacement falls back to the defaults", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		require.NoError(t, r.Replace(ctx, model.KindIncome, nil))

		income, err := r.List(ctx, model.KindIncome)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultIncomeCategories, income)
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)

	require.NoError(t, r.Add(ctx, model.KindExpense, "Subscriptions"))
	require.NoError(t, r.Reset(ctx))

	expense, err := r.List(ctx, model.KindExpense)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultExpenseCategories, expense)
}
