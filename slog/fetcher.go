// Package slog provides logging decorators for dictgen collaborators.
package slog

import (
	"context"
	"log/slog"
	"time"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

// Ensure Fetcher implements dictgen.Fetcher.
var _ dictgen.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a dictgen.Fetcher with per-request logging.
type Fetcher struct {
	next   dictgen.Fetcher
	logger *slog.Logger
}

// NewFetcher creates a new logging Fetcher.
func NewFetcher(next dictgen.Fetcher, logger *slog.Logger) *Fetcher {
	return &Fetcher{next: next, logger: logger}
}

// Get delegates to the wrapped fetcher and logs the outcome.
func (f *Fetcher) Get(ctx context.Context, url string, document bool) ([]byte, error) {
	begin := time.Now()
	data, err := f.next.Get(ctx, url, document)
	if err != nil {
		f.logger.Error("fetch failed",
			"url", url,
			"document", document,
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}
	f.logger.Info("fetch",
		"url", url,
		"document", document,
		"bytes", len(data),
		"duration", time.Since(begin),
	)
	return data, nil
}
