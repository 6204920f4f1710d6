// Package http provides the HTTP implementation of dictgen.Fetcher: a
// polite, cache-backed client for the wiki and its media archive.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultRequestsPerSecond paces outgoing requests. Cache hits are not
// rate-limited.
const DefaultRequestsPerSecond = 2.0

// userAgent mimics a desktop browser; the wiki serves stripped-down pages to
// unknown clients.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15"

// Ensure Fetcher implements dictgen.Fetcher at compile time.
var _ dictgen.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves URLs over HTTP with a write-through cache. A URL is
// fetched from the network at most once per run: concurrent requests for the
// same URL are coalesced, and every later call is served the cached bytes,
// so callers see identical content for the lifetime of the cache.
type Fetcher struct {
	cache   dictgen.FetchCache
	client  *http.Client
	limiter *rate.Limiter
	group   singleflight.Group
	timeout time.Duration
	rps     float64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRequestsPerSecond sets the network request pace.
func WithRequestsPerSecond(rps float64) Option {
	return func(f *Fetcher) {
		f.rps = rps
	}
}

// NewFetcher creates a Fetcher backed by the given cache.
func NewFetcher(cache dictgen.FetchCache, opts ...Option) *Fetcher {
	f := &Fetcher{
		cache:   cache,
		timeout: DefaultFetchTimeout,
		rps:     DefaultRequestsPerSecond,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{Timeout: f.timeout}
	f.limiter = rate.NewLimiter(rate.Limit(f.rps), 1)

	return f
}

// Get returns the body of url, from cache when possible. document selects
// the browser request profile: page navigation vs. image load.
func (f *Fetcher) Get(ctx context.Context, url string, document bool) ([]byte, error) {
	if data, ok, err := f.cache.Get(url); err != nil {
		return nil, err
	} else if ok {
		return data, nil
	}

	v, err, _ := f.group.Do(url, func() (any, error) {
		// a coalesced caller may have filled the cache already
		if data, ok, err := f.cache.Get(url); err != nil {
			return nil, err
		} else if ok {
			return data, nil
		}

		data, err := f.fetch(ctx, url, document)
		if err != nil {
			return nil, err
		}
		if err := f.cache.Put(url, data); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (f *Fetcher) fetch(ctx context.Context, url string, document bool) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if document {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Sec-Fetch-Dest", "document")
		req.Header.Set("Sec-Fetch-Mode", "navigate")
		req.Header.Set("Sec-Fetch-Site", "none")
	} else {
		req.Header.Set("Accept", "image/webp,image/avif,image/png,image/svg+xml,image/*;q=0.8,*/*;q=0.5")
		req.Header.Set("Sec-Fetch-Dest", "image")
		req.Header.Set("Sec-Fetch-Mode", "no-cors")
		req.Header.Set("Sec-Fetch-Site", "same-site")
		req.Header.Set("Referer", "https://bulbapedia.bulbagarden.net/")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1000))
		return nil, fmt.Errorf("failed to fetch %s: got %s\n%s...", url, resp.Status, snippet)
	}

	return io.ReadAll(resp.Body)
}
