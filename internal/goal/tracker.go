// Package goal implements CRUD over the savings-goal collection.
package goal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/store"
)

// Input is the user-supplied portion of a goal.
type Input struct {
	TargetDate    time.Time
	Name          string
	Description   string
	TargetAmount  float64
	CurrentAmount float64
}

// Tracker owns goal persistence.
type Tracker struct {
	store store.Store
	bus   *bus.Bus
	now   func() time.Time
}

// New creates a Tracker over the given store and bus.
func New(s store.Store, b *bus.Bus) *Tracker {
	return &Tracker{store: s, bus: b, now: time.Now}
}

// WithClock overrides the tracker's notion of now, for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

func validate(in Input) error {
	if in.Name == "" {
		return common.ValidationError("name", "cannot be empty")
	}
	if in.TargetAmount <= 0 || math.IsNaN(in.TargetAmount) || math.IsInf(in.TargetAmount, 0) {
		return common.ValidationError("target amount", "must be a positive finite number")
	}
	if in.CurrentAmount < 0 || math.IsNaN(in.CurrentAmount) || math.IsInf(in.CurrentAmount, 0) {
		return common.ValidationError("current amount", "must be a non-negative finite number")
	}
	if in.TargetDate.IsZero() {
		return common.ValidationError("target date", "is required")
	}
	return nil
}

// List loads the goal collection. A missing or corrupt collection yields an
// empty one.
func (t *Tracker) List(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if _, err := store.GetJSON(ctx, t.store, store.KeyGoals, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (t *Tracker) save(ctx context.Context, goals []model.Goal) error {
	if goals == nil {
		goals = []model.Goal{}
	}
	if err := store.SetJSON(ctx, t.store, store.KeyGoals, goals); err != nil {
		return err
	}
	t.bus.Publish(bus.Event{Topic: bus.TopicGoalsUpdated})
	return nil
}

func nextID(goals []model.Goal, now time.Time) int64 {
	id := now.UnixMilli()
	taken := make(map[int64]bool, len(goals))
	for _, g := range goals {
		taken[g.ID] = true
	}
	for taken[id] {
		id++
	}
	return id
}

// Create validates the input and appends a new goal.
func (t *Tracker) Create(ctx context.Context, in Input) (model.Goal, error) {
	if err := validate(in); err != nil {
		return model.Goal{}, err
	}

	goals, err := t.List(ctx)
	if err != nil {
		return model.Goal{}, err
	}

	now := t.now()
	g := model.Goal{
		ID:            nextID(goals, now),
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		TargetDate:    in.TargetDate,
		Description:   in.Description,
		CreatedAt:     now,
	}

	if err := t.save(ctx, append(goals, g)); err != nil {
		return model.Goal{}, err
	}

	slog.Info("created goal", "id", g.ID, "name", g.Name)
	return g, nil
}

// Get returns the goal with the given id.
func (t *Tracker) Get(ctx context.Context, id int64) (model.Goal, error) {
	goals, err := t.List(ctx)
	if err != nil {
		return model.Goal{}, err
	}
	for _, g := range goals {
		if g.ID == id {
			return g, nil
		}
	}
	return model.Goal{}, fmt.Errorf("%w: goal %d", common.ErrNotFound, id)
}

// Update replaces the identified goal with the validated input, preserving
// its id and creation timestamp.
func (t *Tracker) Update(ctx context.Context, id int64, in Input) (model.Goal, error) {
	if err := validate(in); err != nil {
		return model.Goal{}, err
	}

	goals, err := t.List(ctx)
	if err != nil {
		return model.Goal{}, err
	}

	for i, g := range goals {
		if g.ID != id {
			continue
		}
		goals[i] = model.Goal{
			ID:            g.ID,
			Name:          in.Name,
			TargetAmount:  in.TargetAmount,
			CurrentAmount: in.CurrentAmount,
			TargetDate:    in.TargetDate,
			Description:   in.Description,
			CreatedAt:     g.CreatedAt,
		}
		if err := t.save(ctx, goals); err != nil {
			return model.Goal{}, err
		}
		slog.Info("updated goal", "id", id)
		return goals[i], nil
	}

	return model.Goal{}, fmt.Errorf("%w: goal %d", common.ErrNotFound, id)
}

// Delete removes the identified goal. Deleting an absent id is a no-op.
func (t *Tracker) Delete(ctx context.Context, id int64) error {
	goals, err := t.List(ctx)
	if err != nil {
		return err
	}

	kept := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	return t.save(ctx, kept)
}

// RemoveAll clears the goal collection.
func (t *Tracker) RemoveAll(ctx context.Context) error {
	return t.save(ctx, []model.Goal{})
}
