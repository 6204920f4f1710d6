package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpsdqs/pokedex-dictgen/fs"
)

func TestCache(t *testing.T) {
	t.Parallel()

	t.Run("round trips a body", func(t *testing.T) {
		t.Parallel()

		cache := fs.NewCache(t.TempDir())

		require.NoError(t, cache.Put("https://example.com/page", []byte("body")))

		data, ok, err := cache.Get("https://example.com/page")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("body"), data)
	})

	t.Run("misses are not errors", func(t *testing.T) {
		t.Parallel()

		cache := fs.NewCache(t.TempDir())

		data, ok, err := cache.Get("https://example.com/never-stored")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, data)
	})

	t.Run("distinct URLs get distinct files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cache := fs.NewCache(dir)

		require.NoError(t, cache.Put("https://example.com/a", []byte("a")))
		require.NoError(t, cache.Put("https://example.com/b", []byte("b")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)

		data, ok, err := cache.Get("https://example.com/a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("a"), data)
	})

	t.Run("creates the directory on first write", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "cache")
		cache := fs.NewCache(dir)

		require.NoError(t, cache.Put("https://example.com/page", []byte("body")))

		_, err := os.Stat(dir)
		assert.NoError(t, err)
	})
}
