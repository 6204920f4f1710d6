// Package mock provides hand-written mocks of dictgen collaborators.
package mock

import (
	"context"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

var _ dictgen.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of dictgen.Fetcher.
type Fetcher struct {
	GetFn func(ctx context.Context, url string, document bool) ([]byte, error)
}

func (f *Fetcher) Get(ctx context.Context, url string, document bool) ([]byte, error) {
	return f.GetFn(ctx, url, document)
}
