package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/registry"
	"github.com/dhruvkb/pennyflow/internal/store"
)

// fixedNow keeps the month-window tests deterministic.
var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	s := store.NewMemoryStore()
	b := bus.New()
	return New(s, b, registry.New(s, b)).WithClock(func() time.Time { return fixedNow })
}

func txnOn(date time.Time, category string, amount float64) model.Transaction {
	return model.Transaction{
		ID:       date.UnixMilli(),
		Date:     date,
		Category: category,
		Amount:   amount,
	}
}

func TestFilter(t *testing.T) {
	e := newTestEngine(t)

	transactions := []model.Transaction{
		txnOn(time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC), "Salary", 1000),
		txnOn(time.Date(2025, time.June, 10, 18, 0, 0, 0, time.UTC), "Food", -40),
		txnOn(time.Date(2025, time.May, 20, 9, 0, 0, 0, time.UTC), "Housing", -500),
		txnOn(time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC), "Food", -25),
		txnOn(time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC), "Salary", 900),
	}

	t.Run("no criteria returns everything", func(t *testing.T) {
		assert.Len(t, e.Filter(transactions, Criteria{}), 5)
	})

	t.Run("type filter", func(t *testing.T) {
		income := e.Filter(transactions, Criteria{Type: TypeIncome})
		require.Len(t, income, 2)
		for _, txn := range income {
			assert.Positive(t, txn.Amount)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		food := e.Filter(transactions, Criteria{Category: "Food"})
		require.Len(t, food, 2)
		for _, txn := range food {
			assert.Equal(t, "Food", txn.Category)
		}
	})

	t.Run("category all is a no-op", func(t *testing.T) {
		assert.Len(t, e.Filter(transactions, Criteria{Category: CategoryAll}), 5)
	})

	t.Run("current month window", func(t *testing.T) {
		got := e.Filter(transactions, Criteria{Window: WindowCurrent})
		// June 2024 must not leak into June 2025.
		require.Len(t, got, 2)
		for _, txn := range got {
			assert.Equal(t, 2025, txn.Date.Year())
			assert.Equal(t, time.June, txn.Date.Month())
		}
	})

	t.Run("last month window", func(t *testing.T) {
		got := e.Filter(transactions, Criteria{Window: WindowLast})
		require.Len(t, got, 1)
		assert.Equal(t, time.May, got[0].Date.Month())
	})

	t.Run("last three months window", func(t *testing.T) {
		got := e.Filter(transactions, Criteria{Window: WindowLast3})
		// February and last year's June fall outside the rolling window.
		assert.Len(t, got, 3)
	})

	t.Run("exact date overrides the window", func(t *testing.T) {
		date := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
		got := e.Filter(transactions, Criteria{DateExact: &date, Window: WindowCurrent})
		require.Len(t, got, 1)
		assert.Equal(t, -25.0, got[0].Amount)
	})

	t.Run("filters combine conjunctively", func(t *testing.T) {
		got := e.Filter(transactions, Criteria{Type: TypeExpense, Category: "Food", Window: WindowCurrent})
		require.Len(t, got, 1)
		assert.Equal(t, -40.0, got[0].Amount)
	})

	t.Run("filtering is idempotent", func(t *testing.T) {
		criteria := Criteria{Type: TypeExpense, Window: WindowLast3}
		once := e.Filter(transactions, criteria)
		twice := e.Filter(once, criteria)
		assert.Equal(t, once, twice)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		before := transactions[0]
		e.Filter(transactions, Criteria{Type: TypeIncome})
		assert.Equal(t, before, transactions[0])
	})
}

func TestGroupByDay(t *testing.T) {
	e := newTestEngine(t)

	morning := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.June, 10, 20, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, time.June, 3, 12, 0, 0, 0, time.UTC)

	groups := e.GroupByDay([]model.Transaction{
		txnOn(earlier, "Food", -20),
		txnOn(morning, "Salary", 1000),
		txnOn(evening, "Shopping", -60),
	})

	require.Len(t, groups, 2)

	// Newest day first, and both same-day transactions share one bucket.
	assert.Equal(t, "Jun 10, 2025", groups[0].Label)
	assert.Len(t, groups[0].Transactions, 2)
	assert.Equal(t, "Jun 3, 2025", groups[1].Label)
	assert.Len(t, groups[1].Transactions, 1)

	// Grouping partitions the input: nothing lost, nothing duplicated.
	total := 0
	for _, g := range groups {
		total += len(g.Transactions)
	}
	assert.Equal(t, 3, total)
}

func TestSummarize(t *testing.T) {
	e := newTestEngine(t)

	t.Run("empty collection is all zeros", func(t *testing.T) {
		summary := e.Summarize(nil)
		assert.Zero(t, summary.TotalIncome)
		assert.Zero(t, summary.TotalExpense)
		assert.Zero(t, summary.Balance)
		assert.Zero(t, summary.Count)
	})

	t.Run("expense total is an unsigned magnitude", func(t *testing.T) {
		summary := e.Summarize([]model.Transaction{
			{Amount: 100}, {Amount: -40},
		})
		assert.Equal(t, 100.0, summary.TotalIncome)
		assert.Equal(t, 40.0, summary.TotalExpense)
		assert.Equal(t, 60.0, summary.Balance)
		assert.Equal(t, 2, summary.Count)
	})

	t.Run("balance identity holds", func(t *testing.T) {
		summary := e.Summarize([]model.Transaction{
			{Amount: 1200}, {Amount: -350.5}, {Amount: 75.25}, {Amount: -10},
		})
		assert.InDelta(t, summary.TotalIncome-summary.TotalExpense, summary.Balance, 1e-9)
		assert.Equal(t, 4, summary.Count)
	})
}

func TestMonthlySeries(t *testing.T) {
	e := newTestEngine(t)

	transactions := []model.Transaction{
		txnOn(time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), "Salary", 1000),
		txnOn(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), "Salary", 800),
		txnOn(time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), "Food", -50),
	}

	t.Run("default series collapses years", func(t *testing.T) {
		income := e.MonthlySeries(transactions, model.TypeIncome)
		assert.Equal(t, 1800.0, income[0])

		expense := e.MonthlySeries(transactions, model.TypeExpense)
		assert.Equal(t, 50.0, expense[2])
		assert.Zero(t, expense[0])
	})

	t.Run("year-scoped series keeps years apart", func(t *testing.T) {
		income := e.MonthlySeriesForYear(transactions, model.TypeIncome, 2025)
		assert.Equal(t, 1000.0, income[0])

		income = e.MonthlySeriesForYear(transactions, model.TypeIncome, 2024)
		assert.Equal(t, 800.0, income[0])
	})
}

func TestRecent(t *testing.T) {
	e := newTestEngine(t)

	transactions := []model.Transaction{
		txnOn(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), "Food", -10),
		txnOn(time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC), "Food", -20),
		txnOn(time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), "Food", -30),
	}

	recent := e.Recent(transactions, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, -20.0, recent[0].Amount)
	assert.Equal(t, -30.0, recent[1].Amount)

	// Asking for more than exists returns everything.
	assert.Len(t, e.Recent(transactions, 10), 3)
}
