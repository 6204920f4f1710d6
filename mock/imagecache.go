package mock

import (
	"context"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

var _ dictgen.ImageCache = (*ImageCache)(nil)

// ImageCache is a mock implementation of dictgen.ImageCache.
type ImageCache struct {
	GetFn func(ctx context.Context, url string) (string, error)
}

func (c *ImageCache) Get(ctx context.Context, url string) (string, error) {
	return c.GetFn(ctx, url)
}
