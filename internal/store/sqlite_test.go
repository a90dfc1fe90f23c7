package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhruvkb/pennyflow/internal/common"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := createTestStore(t)

		_, ok, err := s.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set and get", func(t *testing.T) {
		s := createTestStore(t)

		require.NoError(t, s.Set(ctx, "currency", "EUR"))
		value, ok, err := s.Get(ctx, "currency")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "EUR", value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := createTestStore(t)

		require.NoError(t, s.Set(ctx, "currency", "EUR"))
		require.NoError(t, s.Set(ctx, "currency", "JPY"))

		value, _, err := s.Get(ctx, "currency")
		require.NoError(t, err)
		assert.Equal(t, "JPY", value)
	})

	t.Run("delete", func(t *testing.T) {
		s := createTestStore(t)

		require.NoError(t, s.Set(ctx, "currency", "EUR"))
		require.NoError(t, s.Delete(ctx, "currency"))

		_, ok, err := s.Get(ctx, "currency")
		require.NoError(t, err)
		assert.False(t, ok)

		// Deleting an absent key is a no-op.
		assert.NoError(t, s.Delete(ctx, "currency"))
	})

	t.Run("values survive reopen", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		s, err := NewSQLiteStore(dbPath)
		require.NoError(t, err)
		require.NoError(t, s.Migrate(ctx))
		require.NoError(t, s.Set(ctx, "currency", "GBP"))
		require.NoError(t, s.Close())

		reopened, err := NewSQLiteStore(dbPath)
		require.NoError(t, err)
		defer reopened.Close()
		require.NoError(t, reopened.Migrate(ctx))

		value, ok, err := reopened.Get(ctx, "currency")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "GBP", value)
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		s := createTestStore(t)
		assert.NoError(t, s.Migrate(ctx))
	})
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("round-trip", func(t *testing.T) {
		s := NewMemoryStore()

		require.NoError(t, SetJSON(ctx, s, "payload", payload{Name: "rent", Count: 3}))

		var got payload
		found, err := GetJSON(ctx, s, "payload", &got)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, payload{Name: "rent", Count: 3}, got)
	})

	t.Run("missing key reports not found", func(t *testing.T) {
		s := NewMemoryStore()

		var got payload
		found, err := GetJSON(ctx, s, "payload", &got)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Zero(t, got)
	})

	t.Run("corrupt value is treated as missing", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, "payload", "{not json"))

		var got payload
		found, err := GetJSON(ctx, s, "payload", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("decode failures carry the corrupt sentinel", func(t *testing.T) {
		var got payload
		err := decode("payload", "{not json", &got)
		assert.ErrorIs(t, err, common.ErrStoreCorrupt)

		assert.NoError(t, decode("payload", `{"name":"rent"}`, &got))
	})
}
