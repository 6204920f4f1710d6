// Package imaging implements dictgen.ImageCache: images are downloaded once,
// large PNGs are re-encoded as JPEG to keep the dictionary bundle small, and
// everything is stored on disk under a stable identifier derived from the
// asset URL.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

// compressedExt is the extension of re-encoded images.
const compressedExt = "jpg"

// DefaultJPEGQuality is the encoding quality for re-compressed images.
const DefaultJPEGQuality = 80

// Ensure Cache implements dictgen.ImageCache at compile time.
var _ dictgen.ImageCache = (*Cache)(nil)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Cache downloads and stores images. The identifier returned by Get doubles
// as the stored file name; concurrent requests for the same identifier are
// coalesced so each asset is fetched and compressed at most once.
type Cache struct {
	dir     string
	fetcher dictgen.Fetcher
	group   singleflight.Group
	quality int
}

// Option configures a Cache.
type Option func(*Cache)

// WithJPEGQuality sets the re-encoding quality (1-100).
func WithJPEGQuality(q int) Option {
	return func(c *Cache) {
		c.quality = q
	}
}

// NewCache creates a Cache storing images under dir, downloading misses
// through fetcher.
func NewCache(fetcher dictgen.Fetcher, dir string, opts ...Option) *Cache {
	c := &Cache{
		dir:     dir,
		fetcher: fetcher,
		quality: DefaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// imageIDExt derives the cache identifier and file extension from an asset
// URL. The path below /media/upload, minus the extension, becomes the
// identifier with its segments reversed and joined by "-", so
// ".../a/ab/File.png" maps to "File-ab-a.png".
func imageIDExt(u *url.URL) (id, ext string, err error) {
	path := strings.TrimPrefix(strings.TrimPrefix(u.Path, "/media/upload"), "/")

	name, ext, ok := cutLast(path, ".")
	if !ok {
		return "", "", dictgen.Errorf(dictgen.EPARSE, "image URL has no file extension: %s", u)
	}

	parts := strings.Split(name, "/")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "-"), ext, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// Get returns the cache identifier for the image at rawURL, downloading and
// storing it first if needed.
func (c *Cache) Get(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", dictgen.Errorf(dictgen.EPARSE, "invalid image URL %q: %v", rawURL, err)
	}
	id, ext, err := imageIDExt(u)
	if err != nil {
		return "", err
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		return c.load(ctx, rawURL, id, ext)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Cache) load(ctx context.Context, rawURL, id, ext string) (string, error) {
	namePlain := fmt.Sprintf("%s.%s", id, ext)
	nameCompressed := fmt.Sprintf("%s.%s", id, compressedExt)

	if _, err := os.Stat(filepath.Join(c.dir, nameCompressed)); err == nil {
		return nameCompressed, nil
	}
	if _, err := os.Stat(filepath.Join(c.dir, namePlain)); err == nil {
		return namePlain, nil
	}

	data, err := c.fetcher.Get(ctx, rawURL, false)
	if err != nil {
		return "", dictgen.Errorf(dictgen.EDOWNSTREAM, "error loading image: %w", err)
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", err
	}

	compressed, err := c.tryCompress(ext, data)
	if err != nil {
		return "", dictgen.Errorf(dictgen.EDOWNSTREAM, "error compressing image: %w", err)
	}
	if compressed != nil {
		if err := os.WriteFile(filepath.Join(c.dir, nameCompressed), compressed, 0644); err != nil {
			return "", err
		}
		return nameCompressed, nil
	}

	if err := os.WriteFile(filepath.Join(c.dir, namePlain), data, 0644); err != nil {
		return "", err
	}
	return namePlain, nil
}

// tryCompress re-encodes still PNGs as JPEG. Animated PNGs and every other
// format are stored verbatim; a nil result means "keep the original bytes".
func (c *Cache) tryCompress(ext string, data []byte) ([]byte, error) {
	if !strings.EqualFold(ext, "png") {
		return nil, nil
	}
	// animated PNGs carry an acTL chunk; Go's decoder would keep only the
	// first frame
	if bytes.Contains(data, []byte("acTL")) {
		return nil, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	// JPEG has no alpha channel; flatten onto white first
	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), white)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
