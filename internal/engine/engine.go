// Package engine implements the transaction aggregation engine: filtering,
// timeline grouping, summary totals, and monthly series over the persisted
// transaction collection. It is the single implementation consumed by every
// presentation surface.
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/registry"
	"github.com/dhruvkb/pennyflow/internal/store"
)

// TypeFilter selects transactions by sign.
type TypeFilter string

// Type filter values.
const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
)

// MonthWindow is a relative date-range filter.
type MonthWindow string

// Month window values. WindowLast3 is an open-ended rolling window: every
// transaction dated on or after three calendar months before now.
const (
	WindowAll     MonthWindow = "all"
	WindowCurrent MonthWindow = "current"
	WindowLast    MonthWindow = "last"
	WindowLast3   MonthWindow = "last3"
)

// CategoryAll matches every category.
const CategoryAll = "all"

// Criteria describes a conjunctive transaction filter. DateExact, when set,
// overrides the month window entirely.
type Criteria struct {
	DateExact *time.Time
	Category  string
	Type      TypeFilter
	Window    MonthWindow
}

// Summary aggregates a transaction set. TotalExpense is an unsigned
// magnitude, so Balance = TotalIncome - TotalExpense.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	Balance      float64
	Count        int
}

// DayGroup is one calendar-day bucket of the timeline, newest day first.
type DayGroup struct {
	Day          time.Time
	Label        string
	Transactions []model.Transaction
}

// Engine owns transaction persistence and aggregation.
type Engine struct {
	store    store.Store
	bus      *bus.Bus
	registry *registry.Registry
	now      func() time.Time
}

// New creates an Engine over the given store, bus, and category registry.
func New(s store.Store, b *bus.Bus, r *registry.Registry) *Engine {
	return &Engine{store: s, bus: b, registry: r, now: time.Now}
}

// WithClock overrides the engine's notion of now. Used by tests and by the
// month-window filters.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Transactions loads the full collection. A missing or corrupt collection
// yields an empty one, never an error.
func (e *Engine) Transactions(ctx context.Context) ([]model.Transaction, error) {
	var transactions []model.Transaction
	if _, err := store.GetJSON(ctx, e.store, store.KeyTransactions, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (e *Engine) save(ctx context.Context, transactions []model.Transaction) error {
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	if err := store.SetJSON(ctx, e.store, store.KeyTransactions, transactions); err != nil {
		return err
	}
	e.bus.Publish(bus.Event{Topic: bus.TopicTransactionsUpdated})
	return nil
}

// Filter applies the criteria conjunctively. An exact date wins over any
// month window.
func (e *Engine) Filter(transactions []model.Transaction, c Criteria) []model.Transaction {
	now := e.now()
	filtered := make([]model.Transaction, 0, len(transactions))

	for _, t := range transactions {
		if c.Type != "" && c.Type != TypeAll && TypeFilter(t.Type()) != c.Type {
			continue
		}
		if c.Category != "" && c.Category != CategoryAll && t.Category != c.Category {
			continue
		}
		if c.DateExact != nil {
			if !sameDay(t.Date, *c.DateExact) {
				continue
			}
		} else if !inWindow(t.Date, c.Window, now) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func inWindow(date time.Time, w MonthWindow, now time.Time) bool {
	switch w {
	case WindowCurrent:
		return date.Month() == now.Month() && date.Year() == now.Year()
	case WindowLast:
		year, month := now.Year(), now.Month()
		if month == time.January {
			year, month = year-1, time.December
		} else {
			month--
		}
		return date.Month() == month && date.Year() == year
	case WindowLast3:
		return !date.Before(now.AddDate(0, -3, 0))
	default:
		return true
	}
}

// GroupByDay sorts descending by date and buckets by calendar day. Within a
// bucket, order follows the sort, so concatenating all buckets reproduces
// the sorted input exactly.
func (e *Engine) GroupByDay(transactions []model.Transaction) []DayGroup {
	sorted := make([]model.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	var groups []DayGroup
	for _, t := range sorted {
		day := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, t.Date.Location())
		if n := len(groups); n > 0 && groups[n-1].Day.Equal(day) {
			groups[n-1].Transactions = append(groups[n-1].Transactions, t)
			continue
		}
		groups = append(groups, DayGroup{
			Day:          day,
			Label:        day.Format("Jan 2, 2006"),
			Transactions: []model.Transaction{t},
		})
	}
	return groups
}

// Summarize totals the set. Income sums positive amounts, expense sums the
// magnitudes of negative amounts; a zero amount contributes to neither.
// Empty input yields the all-zero summary.
func (e *Engine) Summarize(transactions []model.Transaction) Summary {
	s := Summary{Count: len(transactions)}
	for _, t := range transactions {
		switch {
		case t.Amount > 0:
			s.TotalIncome += t.Amount
		case t.Amount < 0:
			s.TotalExpense += -t.Amount
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}

// MonthlySeries sums magnitudes of matching-sign transactions into twelve
// calendar-month buckets (Jan=0), ignoring the year: multi-year data
// collapses into the same buckets. MonthlySeriesForYear is the year-aware
// variant.
func (e *Engine) MonthlySeries(transactions []model.Transaction, t model.TransactionType) [12]float64 {
	var series [12]float64
	for _, txn := range transactions {
		if !matchesType(txn, t) {
			continue
		}
		series[int(txn.Date.Month())-1] += txn.Magnitude()
	}
	return series
}

// MonthlySeriesForYear is MonthlySeries restricted to a single year.
func (e *Engine) MonthlySeriesForYear(transactions []model.Transaction, t model.TransactionType, year int) [12]float64 {
	var series [12]float64
	for _, txn := range transactions {
		if !matchesType(txn, t) || txn.Date.Year() != year {
			continue
		}
		series[int(txn.Date.Month())-1] += txn.Magnitude()
	}
	return series
}

func matchesType(txn model.Transaction, t model.TransactionType) bool {
	switch t {
	case model.TypeIncome:
		return txn.Amount > 0
	case model.TypeExpense:
		return txn.Amount < 0
	default:
		return false
	}
}

// Recent returns the n newest transactions by date.
func (e *Engine) Recent(transactions []model.Transaction, n int) []model.Transaction {
	sorted := make([]model.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
