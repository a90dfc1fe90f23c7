package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/store"
)

// Input is the user-supplied portion of a transaction. Amount is an
// unsigned magnitude; the sign is applied from Type.
type Input struct {
	Date        time.Time
	Category    string
	Description string
	Type        model.TransactionType
	Amount      float64
}

func (e *Engine) validate(ctx context.Context, in Input) error {
	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return common.ValidationError("amount", "must be a positive finite number")
	}
	if in.Category == "" {
		return common.ValidationError("category", "cannot be empty")
	}
	if in.Date.IsZero() {
		return common.ValidationError("date", "is required")
	}
	if in.Type != model.TypeIncome && in.Type != model.TypeExpense {
		return common.ValidationError("type", "must be income or expense")
	}

	registered, err := e.registry.Contains(ctx, model.KindForType(in.Type), in.Category)
	if err != nil {
		return err
	}
	if !registered {
		return common.ValidationError("category",
			fmt.Sprintf("%q is not a registered %s category", in.Category, in.Type))
	}
	return nil
}

// signedAmount applies the type's sign to the magnitude.
func signedAmount(in Input) float64 {
	if in.Type == model.TypeExpense {
		return -in.Amount
	}
	return in.Amount
}

// effectiveDate keeps the chosen calendar day and stamps it with the
// current time of day, so same-day entries keep their relative order.
func effectiveDate(chosen, now time.Time) time.Time {
	return time.Date(chosen.Year(), chosen.Month(), chosen.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, now.Location())
}

// nextID derives an id from the creation timestamp, bumping past any
// collision with an existing record.
func nextID(transactions []model.Transaction, now time.Time) int64 {
	id := now.UnixMilli()
	taken := make(map[int64]bool, len(transactions))
	for _, t := range transactions {
		taken[t.ID] = true
	}
	for taken[id] {
		id++
	}
	return id
}

// Create validates the input and appends a new transaction.
func (e *Engine) Create(ctx context.Context, in Input) (model.Transaction, error) {
	if err := e.validate(ctx, in); err != nil {
		return model.Transaction{}, err
	}

	transactions, err := e.Transactions(ctx)
	if err != nil {
		return model.Transaction{}, err
	}

	now := e.now()
	txn := model.Transaction{
		ID:          nextID(transactions, now),
		Amount:      signedAmount(in),
		Category:    in.Category,
		Date:        effectiveDate(in.Date, now),
		Description: in.Description,
		CreatedAt:   now,
	}

	if err := e.save(ctx, append(transactions, txn)); err != nil {
		return model.Transaction{}, err
	}

	slog.Info("created transaction", "id", txn.ID, "type", txn.Type(), "amount", txn.Amount)
	return txn, nil
}

// Get returns the transaction with the given id.
func (e *Engine) Get(ctx context.Context, id int64) (model.Transaction, error) {
	transactions, err := e.Transactions(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	for _, t := range transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Transaction{}, fmt.Errorf("%w: transaction %d", common.ErrNotFound, id)
}

// Update replaces the identified transaction with the validated input,
// preserving its id and creation timestamp.
func (e *Engine) Update(ctx context.Context, id int64, in Input) (model.Transaction, error) {
	if err := e.validate(ctx, in); err != nil {
		return model.Transaction{}, err
	}

	transactions, err := e.Transactions(ctx)
	if err != nil {
		return model.Transaction{}, err
	}

	for i, t := range transactions {
		if t.ID != id {
			continue
		}
		transactions[i] = model.Transaction{
			ID:          t.ID,
			Amount:      signedAmount(in),
			Category:    in.Category,
			Date:        effectiveDate(in.Date, e.now()),
			Description: in.Description,
			CreatedAt:   t.CreatedAt,
		}
		if err := e.save(ctx, transactions); err != nil {
			return model.Transaction{}, err
		}
		slog.Info("updated transaction", "id", id)
		return transactions[i], nil
	}

	return model.Transaction{}, fmt.Errorf("%w: transaction %d", common.ErrNotFound, id)
}

// Delete removes the identified transaction. Deleting an absent id is a
// no-op.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	transactions, err := e.Transactions(ctx)
	if err != nil {
		return err
	}

	kept := transactions[:0]
	for _, t := range transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return e.save(ctx, kept)
}

// BeginEdit stores a copy of the transaction in the transient edit slot for
// a later form to consume.
func (e *Engine) BeginEdit(ctx context.Context, id int64) (model.Transaction, error) {
	txn, err := e.Get(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if err := store.SetJSON(ctx, e.store, store.KeyEditingTransaction, txn); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

// TakeEditing returns and clears the transient edit slot.
func (e *Engine) TakeEditing(ctx context.Context) (model.Transaction, bool, error) {
	var txn model.Transaction
	found, err := store.GetJSON(ctx, e.store, store.KeyEditingTransaction, &txn)
	if err != nil {
		return model.Transaction{}, false, err
	}
	if !found {
		return model.Transaction{}, false, nil
	}
	if err := e.store.Delete(ctx, store.KeyEditingTransaction); err != nil {
		return model.Transaction{}, false, err
	}
	return txn, true, nil
}

// RemoveAll clears the transaction collection.
func (e *Engine) RemoveAll(ctx context.Context) error {
	return e.save(ctx, []model.Transaction{})
}

// Import adds externally sourced transactions (ids unassigned) to the
// collection. When replace is true the imported set becomes the whole
// collection, matching the spreadsheet restore flow; otherwise it appends.
func (e *Engine) Import(ctx context.Context, incoming []model.Transaction, replace bool) (int, error) {
	existing, err := e.Transactions(ctx)
	if err != nil {
		return 0, err
	}

	base := existing
	if replace {
		base = nil
	}

	now := e.now()
	for _, txn := range incoming {
		txn.ID = nextID(base, now)
		if txn.CreatedAt.IsZero() {
			txn.CreatedAt = now
		}
		if err := e.registerCategory(ctx, txn); err != nil {
			return 0, err
		}
		base = append(base, txn)
	}

	if err := e.save(ctx, base); err != nil {
		return 0, err
	}

	slog.Info("imported transactions", "count", len(incoming), "replace", replace)
	return len(incoming), nil
}

// registerCategory adds an imported transaction's category to the registry
// when it is not already there, so the record stays editable afterwards.
func (e *Engine) registerCategory(ctx context.Context, txn model.Transaction) error {
	if txn.Category == "" {
		return nil
	}
	kind := model.KindForType(txn.Type())
	registered, err := e.registry.Contains(ctx, kind, txn.Category)
	if err != nil {
		return err
	}
	if registered {
		return nil
	}
	return e.registry.Add(ctx, kind, txn.Category)
}
