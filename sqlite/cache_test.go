package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpsdqs/pokedex-dictgen/sqlite"
)

// mustOpenDB returns an open in-memory database, closed at test end.
func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func TestCache(t *testing.T) {
	t.Parallel()

	t.Run("round trips a body", func(t *testing.T) {
		t.Parallel()

		cache := sqlite.NewCache(mustOpenDB(t))

		require.NoError(t, cache.Put("https://example.com/page", []byte("body")))

		data, ok, err := cache.Get("https://example.com/page")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("body"), data)
	})

	t.Run("misses are not errors", func(t *testing.T) {
		t.Parallel()

		cache := sqlite.NewCache(mustOpenDB(t))

		data, ok, err := cache.Get("https://example.com/never-stored")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, data)
	})

	t.Run("first write wins", func(t *testing.T) {
		t.Parallel()

		cache := sqlite.NewCache(mustOpenDB(t))

		require.NoError(t, cache.Put("https://example.com/page", []byte("first")))
		require.NoError(t, cache.Put("https://example.com/page", []byte("second")))

		data, ok, err := cache.Get("https://example.com/page")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("first"), data)
	})

	t.Run("persists across connections", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cache.db")

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		require.NoError(t, sqlite.NewCache(db).Put("https://example.com/page", []byte("body")))
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		data, ok, err := sqlite.NewCache(db).Get("https://example.com/page")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("body"), data)
	})
}
