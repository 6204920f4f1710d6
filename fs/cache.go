// Package fs provides a file-backed fetch cache: one blob file per URL.
package fs

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

// Ensure Cache implements dictgen.FetchCache at compile time.
var _ dictgen.FetchCache = (*Cache)(nil)

// Cache stores response bodies as files named by the xxHash of their URL.
// Hashed names keep paths short and filesystem-safe regardless of the URL's
// length or characters.
type Cache struct {
	dir string
}

// NewCache creates a Cache rooted at dir. The directory is created on first
// write.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(url string) string {
	sum := xxhash.Sum64String(url)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	return filepath.Join(c.dir, hex.EncodeToString(b[:]))
}

// Get returns the cached body for url, if present.
func (c *Cache) Get(url string) ([]byte, bool, error) {
	data, err := os.ReadFile(c.path(url))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put stores the body for url.
func (c *Cache) Put(url string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path(url), data, 0644)
}
