// Package crawl orchestrates extraction across all indexed pages.
// Pages are independent, so they are processed in parallel; the read-only
// index and the serializing Fetcher/ImageCache are the only shared state.
package crawl

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
	gq "github.com/cpsdqs/pokedex-dictgen/goquery"
)

// Crawler fetches and extracts every entry of an index.
type Crawler struct {
	Fetcher dictgen.Fetcher
	Images  dictgen.ImageCache
	Config  dictgen.Config

	// Concurrency bounds the number of pages processed at once.
	Concurrency int

	// ContinueOnError keeps going past failing pages, reporting them via
	// the progress callback. By default the first failure aborts the run.
	ContinueOnError bool
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	ID        dictgen.DexID
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// crawlResult holds the outcome of processing a single page.
type crawlResult struct {
	id    dictgen.DexID
	url   string
	entry *dictgen.Entry
	err   error
}

// CrawlEntries extracts all pages in index and returns the entries keyed by
// ID. A failing page aborts only its own unit of work; whether the whole
// run aborts is governed by ContinueOnError.
func (c *Crawler) CrawlEntries(ctx context.Context, index *dictgen.Index, progress ProgressFunc) (map[dictgen.DexID]*dictgen.Entry, error) {
	ids := index.IDs()
	total := len(ids)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan crawlResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, id := range ids {
			id := id
			g.Go(func() error {
				resultCh <- c.processPage(gctx, index, id)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	entries := make(map[dictgen.DexID]*dictgen.Entry, total)
	var firstErr error
	var completed atomic.Int64

	for result := range resultCh {
		completed.Add(1)

		if result.err != nil {
			err := dictgen.Errorf(dictgen.ErrorCode(result.err), "error reading %s: %w", result.id, result.err)
			if firstErr == nil {
				firstErr = err
			}
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					ID:        result.id,
					URL:       result.url,
					Error:     err,
				})
			}
			continue
		}

		entries[result.id] = result.entry
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: int(completed.Load()),
				Total:     total,
				ID:        result.id,
				URL:       result.url,
			})
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	if firstErr != nil && !c.ContinueOnError {
		return nil, firstErr
	}
	return entries, nil
}

func (c *Crawler) processPage(ctx context.Context, index *dictgen.Index, id dictgen.DexID) crawlResult {
	url := index.Pages[id]

	data, err := c.Fetcher.Get(ctx, url, true)
	if err != nil {
		return crawlResult{id: id, url: url, err: dictgen.Errorf(dictgen.EDOWNSTREAM, "error fetching page: %w", err)}
	}

	entry, err := gq.ExtractEntry(ctx, string(data), index, c.Images, c.Config, url)
	if err != nil {
		return crawlResult{id: id, url: url, err: err}
	}
	if err := entry.Validate(); err != nil {
		return crawlResult{id: id, url: url, err: err}
	}

	return crawlResult{id: id, url: url, entry: entry}
}
