// Package store provides the durable key-value persistence layer. Values
// are opaque strings; callers own serialization and must tolerate missing
// or corrupt data by substituting their documented defaults.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dhruvkb/pennyflow/internal/common"
)

// Persisted keys. Values are JSON-encoded unless noted.
const (
	KeyTransactions       = "transactions"
	KeyGoals              = "goals"
	KeyIncomeCategories   = "incomeCategories"
	KeyExpenseCategories  = "expenseCategories"
	KeyDarkMode           = "darkMode"
	KeyCurrency           = "currency" // raw string, not JSON
	KeyEmailNotifications = "emailNotifications"
	// KeyEditingTransaction is a transient hand-off slot for the edit flow,
	// cleared after consumption.
	KeyEditingTransaction = "editingTransaction"
)

// Store is the contract for the persistence layer. There are no
// transactional guarantees: writes are last-writer-wins.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the value under key into dst. A missing key leaves dst
// untouched and reports found=false. A corrupt value is logged and treated
// as missing; it never propagates as an error.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := decode(key, raw, dst); err != nil {
		slog.Warn("discarding corrupt stored value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// decode unmarshals a stored value, tagging failures with ErrStoreCorrupt
// so the recovery path stays distinguishable from transport errors.
func decode(key, raw string, dst any) error {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w: key %q: %v", common.ErrStoreCorrupt, key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := s.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
