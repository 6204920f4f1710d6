package sqlite

import (
	"database/sql"
	"errors"
	"time"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

// Compile-time interface verification.
var _ dictgen.FetchCache = (*Cache)(nil)

// Cache implements dictgen.FetchCache on top of a single fetch_cache table.
type Cache struct {
	db *DB
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db}
}

// Get returns the cached body for url, if present.
func (c *Cache) Get(url string) ([]byte, bool, error) {
	var body []byte
	err := c.db.db.QueryRow(`SELECT body FROM fetch_cache WHERE url = ?`, url).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Put stores the body for url. An existing row is left untouched so the
// first fetched bytes stay authoritative.
func (c *Cache) Put(url string, data []byte) error {
	_, err := c.db.db.Exec(`
		INSERT INTO fetch_cache (url, body, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (url) DO NOTHING
	`, url, data, time.Now().UTC().Format(time.RFC3339))
	return err
}
