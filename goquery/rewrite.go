package goquery

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

// monPageSuffix marks internal article links reserved for Pokémon subjects:
// "/wiki/Bulbasaur_(Pok%C3%A9mon)" and the like.
const monPageSuffix = "_(Pok%C3%A9mon)"

// RewriteSubtree rewrites node's subtree in place for dictionary output:
//
//   - footnote reference markers (sup.reference) are removed; the output has
//     no references section, so they are pure noise
//   - hyperlinks targeting another indexed Pokémon page become
//     x-dictionary cross-reference tokens (dropping the now-stale title
//     attribute); all other hrefs are absolutized against base
//   - images are re-pointed at their cache-relative path, losing srcset;
//     when a width attribute is present the height attribute is dropped so
//     the viewer preserves aspect ratio from width alone
//
// hqImages selects full-resolution image sources over thumbnails.
func RewriteSubtree(ctx context.Context, node *html.Node, index *dictgen.Index, images dictgen.ImageCache, base *url.URL, hqImages bool) error {
	sel := goquery.NewDocumentFromNode(node).Selection

	sel.Find("sup.reference").Remove()

	var rerr error
	sel.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}

		resolved, err := base.Parse(href)
		if err != nil {
			rerr = dictgen.Errorf(dictgen.EPARSE, "error fixing <a href=%q>: %v", href, err)
			return false
		}
		target := resolved.String()

		if strings.HasPrefix(href, "/wiki/") && strings.HasSuffix(href, monPageSuffix) {
			if id, ok := index.Lookup(target); ok {
				target = fmt.Sprintf("x-dictionary:r:pokemon-%d", uint32(id))
				a.RemoveAttr("title")
			}
		}

		a.SetAttr("href", target)
		return true
	})
	if rerr != nil {
		return rerr
	}

	sel.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := bestImageSource(img.Nodes[0], base, hqImages)
		if src == nil {
			rerr = dictgen.Errorf(dictgen.ESTRUCTURE, "<img> without src")
			return false
		}

		id, err := images.Get(ctx, src.String())
		if err != nil {
			rerr = dictgen.Errorf(dictgen.EDOWNSTREAM, "error fixing <img src=%q>: %w", src.String(), err)
			return false
		}

		img.RemoveAttr("srcset")
		img.SetAttr("src", "images/"+url.PathEscape(id))

		// keep aspect ratio
		if _, ok := img.Attr("width"); ok {
			img.RemoveAttr("height")
		}
		return true
	})
	return rerr
}
