package dictgen

import "context"

// Fetcher retrieves raw bytes from URLs.
//
// Implementations must be safe for concurrent use and content-addressed by
// URL: once a URL has been fetched successfully, every later call returns
// identical bytes. Extraction logic is written assuming idempotent, cached
// input. document selects the request profile (HTML page vs. image asset).
type Fetcher interface {
	Get(ctx context.Context, url string, document bool) ([]byte, error)
}

// FetchCache stores fetched response bodies keyed by URL.
// Get reports whether the URL was present; absence is not an error.
type FetchCache interface {
	Get(url string) (data []byte, ok bool, err error)
	Put(url string, data []byte) error
}
