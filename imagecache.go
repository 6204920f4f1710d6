package dictgen

import "context"

// ImageCache downloads images, optionally re-compresses them, and stores
// them locally. Get returns a stable cache identifier (the stored file
// name): the same logical image always yields the same identifier across
// calls, and implementations perform at most one fetch/compress per
// identifier even under concurrent use.
type ImageCache interface {
	Get(ctx context.Context, url string) (string, error)
}
