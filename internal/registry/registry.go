// Package registry manages the two sign-partitioned category lists.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/store"
)

// Registry provides ordered, persisted category lists for each transaction
// sign. Lists are seeded with defaults when missing, empty, or corrupt.
type Registry struct {
	store store.Store
	bus   *bus.Bus
}

// New creates a Registry over the given store and notification bus.
func New(s store.Store, b *bus.Bus) *Registry {
	return &Registry{store: s, bus: b}
}

func keyFor(kind model.CategoryKind) string {
	if kind == model.KindIncome {
		return store.KeyIncomeCategories
	}
	return store.KeyExpenseCategories
}

func defaultsFor(kind model.CategoryKind) []string {
	if kind == model.KindIncome {
		return slices.Clone(model.DefaultIncomeCategories)
	}
	return slices.Clone(model.DefaultExpenseCategories)
}

// List returns the ordered category list for kind, seeding the defaults if
// the stored list is missing or empty.
func (r *Registry) List(ctx context.Context, kind model.CategoryKind) ([]string, error) {
	var categories []string
	found, err := store.GetJSON(ctx, r.store, keyFor(kind), &categories)
	if err != nil {
		return nil, err
	}
	if !found || len(categories) == 0 {
		categories = defaultsFor(kind)
		if err := store.SetJSON(ctx, r.store, keyFor(kind), categories); err != nil {
			return nil, err
		}
		slog.Debug("seeded default categories", "kind", kind, "count", len(categories))
	}
	return categories, nil
}

// Combined returns the union of both lists, first occurrence wins,
// preserving income-then-expense order.
func (r *Registry) Combined(ctx context.Context) ([]string, error) {
	income, err := r.List(ctx, model.KindIncome)
	if err != nil {
		return nil, err
	}
	expense, err := r.List(ctx, model.KindExpense)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(income)+len(expense))
	combined := make([]string, 0, len(income)+len(expense))
	for _, name := range append(income, expense...) {
		if !seen[name] {
			seen[name] = true
			combined = append(combined, name)
		}
	}
	return combined, nil
}

// Contains reports whether name is registered under kind.
func (r *Registry) Contains(ctx context.Context, kind model.CategoryKind, name string) (bool, error) {
	categories, err := r.List(ctx, kind)
	if err != nil {
		return false, err
	}
	return slices.Contains(categories, name), nil
}

// Add appends a new category. The name must not already be present
// (case-sensitive exact match).
func (r *Registry) Add(ctx context.Context, kind model.CategoryKind, name string) error {
	if name == "" {
		return common.ValidationError("category name", "cannot be empty")
	}

	categories, err := r.List(ctx, kind)
	if err != nil {
		return err
	}
	if slices.Contains(categories, name) {
		return fmt.Errorf("%w: %q already exists in %s categories", common.ErrDuplicateCategory, name, kind)
	}

	categories = append(categories, name)
	if err := store.SetJSON(ctx, r.store, keyFor(kind), categories); err != nil {
		return err
	}

	r.bus.Publish(bus.Event{Topic: bus.TopicCategoriesUpdated})
	slog.Info("added category", "kind", kind, "name", name)
	return nil
}

// Remove deletes a category by name. Removal is refused while any
// transaction of the matching sign still references the category.
func (r *Registry) Remove(ctx context.Context, kind model.CategoryKind, name string) error {
	categories, err := r.List(ctx, kind)
	if err != nil {
		return err
	}

	idx := slices.Index(categories, name)
	if idx < 0 {
		return fmt.Errorf("%w: no %s category named %q", common.ErrNotFound, kind, name)
	}

	inUse, err := r.categoryInUse(ctx, kind, name)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: %q is referenced by existing transactions", common.ErrCategoryInUse, name)
	}

	categories = append(categories[:idx], categories[idx+1:]...)
	if err := store.SetJSON(ctx, r.store, keyFor(kind), categories); err != nil {
		return err
	}

	r.bus.Publish(bus.Event{Topic: bus.TopicCategoriesUpdated})
	slog.Info("removed category", "kind", kind, "name", name)
	return nil
}

// Replace swaps the whole list for kind, falling back to the defaults when
// names is empty. Used when restoring from an exported spreadsheet.
func (r *Registry) Replace(ctx context.Context, kind model.CategoryKind, names []string) error {
	if len(names) == 0 {
		names = defaultsFor(kind)
	}
	if err := store.SetJSON(ctx, r.store, keyFor(kind), names); err != nil {
		return err
	}

	r.bus.Publish(bus.Event{Topic: bus.TopicCategoriesUpdated})
	slog.Info("replaced categories", "kind", kind, "count", len(names))
	return nil
}

// Reset restores both lists to their defaults.
func (r *Registry) Reset(ctx context.Context) error {
	for _, kind := range []model.CategoryKind{model.KindIncome, model.KindExpense} {
		if err := store.SetJSON(ctx, r.store, keyFor(kind), defaultsFor(kind)); err != nil {
			return err
		}
	}
	r.bus.Publish(bus.Event{Topic: bus.TopicCategoriesUpdated})
	return nil
}

// categoryInUse checks the transaction collection for a reference to name
// under the matching sign.
func (r *Registry) categoryInUse(ctx context.Context, kind model.CategoryKind, name string) (bool, error) {
	var transactions []model.Transaction
	if _, err := store.GetJSON(ctx, r.store, store.KeyTransactions, &transactions); err != nil {
		return false, err
	}

	for _, t := range transactions {
		if t.Category != name {
			continue
		}
		if (kind == model.KindIncome && t.Amount > 0) || (kind == model.KindExpense && t.Amount < 0) {
			return true, nil
		}
	}
	return false, nil
}
