package goquery_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	pgoquery "github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
	gq "github.com/cpsdqs/pokedex-dictgen/goquery"
	"github.com/cpsdqs/pokedex-dictgen/mock"
)

const squirtleURL = "https://bulbapedia.bulbagarden.net/wiki/Squirtle_(Pok%C3%A9mon)"

func mustParseURL(t *testing.T, s string) *url.URL {
	t.Helper()

	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func rewriteFixture(t *testing.T, markup string) (*html.Node, *pgoquery.Selection) {
	t.Helper()

	doc, err := pgoquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)

	body := doc.Find("body")
	require.NotEmpty(t, body.Nodes)
	return body.Nodes[0], body
}

func passthroughImages() *mock.ImageCache {
	return &mock.ImageCache{
		GetFn: func(_ context.Context, url string) (string, error) {
			return url, nil
		},
	}
}

func TestRewriteSubtree(t *testing.T) {
	t.Parallel()

	base := mustParseURL(t, "https://bulbapedia.bulbagarden.net/wiki/Bulbasaur_(Pok%C3%A9mon)")
	index := &dictgen.Index{
		Pages: map[dictgen.DexID]string{7: squirtleURL},
	}

	t.Run("removes footnote reference markers", func(t *testing.T) {
		t.Parallel()

		node, sel := rewriteFixture(t, `<p>text<sup class="reference">[1]</sup> more</p>`)

		err := gq.RewriteSubtree(context.Background(), node, index, passthroughImages(), base, false)
		require.NoError(t, err)

		assert.Empty(t, sel.Find("sup.reference").Nodes)
		assert.Equal(t, "text more", sel.Find("p").Text())
	})

	t.Run("rewrites indexed article links to cross-reference tokens", func(t *testing.T) {
		t.Parallel()

		node, sel := rewriteFixture(t, `<a href="/wiki/Squirtle_(Pok%C3%A9mon)" title="Squirtle">Squirtle</a>`)

		err := gq.RewriteSubtree(context.Background(), node, index, passthroughImages(), base, false)
		require.NoError(t, err)

		a := sel.Find("a")
		href, _ := a.Attr("href")
		assert.Equal(t, "x-dictionary:r:pokemon-7", href)
		_, hasTitle := a.Attr("title")
		assert.False(t, hasTitle)
	})

	t.Run("absolutizes other links against the page URL", func(t *testing.T) {
		t.Parallel()

		node, sel := rewriteFixture(t, `<a href="/wiki/Water_(type)">Water</a>`)

		err := gq.RewriteSubtree(context.Background(), node, index, passthroughImages(), base, false)
		require.NoError(t, err)

		href, _ := sel.Find("a").Attr("href")
		assert.Equal(t, "https://bulbapedia.bulbagarden.net/wiki/Water_(type)", href)
	})

	t.Run("leaves unindexed article pages as plain links", func(t *testing.T) {
		t.Parallel()

		node, sel := rewriteFixture(t, `<a href="/wiki/Mew_(Pok%C3%A9mon)" title="Mew">Mew</a>`)

		err := gq.RewriteSubtree(context.Background(), node, index, passthroughImages(), base, false)
		require.NoError(t, err)

		a := sel.Find("a")
		href, _ := a.Attr("href")
		assert.Equal(t, "https://bulbapedia.bulbagarden.net/wiki/Mew_(Pok%C3%A9mon)", href)
		_, hasTitle := a.Attr("title")
		assert.True(t, hasTitle)
	})

	t.Run("points images at the cache and drops redundant sizing", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		images := &mock.ImageCache{
			GetFn: func(_ context.Context, url string) (string, error) {
				fetched = append(fetched, url)
				return "Squirtle.png", nil
			},
		}
		node, sel := rewriteFixture(t, `<img src="a.png" srcset="a.png 1x, b.png 2x" width="80" height="80">`)

		err := gq.RewriteSubtree(context.Background(), node, index, images, base, false)
		require.NoError(t, err)

		img := sel.Find("img")
		src, _ := img.Attr("src")
		assert.Equal(t, "images/Squirtle.png", src)
		_, hasSrcSet := img.Attr("srcset")
		assert.False(t, hasSrcSet)
		_, hasHeight := img.Attr("height")
		assert.False(t, hasHeight)
		width, _ := img.Attr("width")
		assert.Equal(t, "80", width)

		assert.Equal(t, []string{"https://bulbapedia.bulbagarden.net/wiki/b.png"}, fetched)
	})

	t.Run("fails loudly on an image without any source", func(t *testing.T) {
		t.Parallel()

		node, _ := rewriteFixture(t, `<img alt="broken">`)

		err := gq.RewriteSubtree(context.Background(), node, index, passthroughImages(), base, false)

		require.Error(t, err)
		assert.Equal(t, dictgen.ESTRUCTURE, dictgen.ErrorCode(err))
	})

	t.Run("reports cache failures with the image URL", func(t *testing.T) {
		t.Parallel()

		images := &mock.ImageCache{
			GetFn: func(_ context.Context, url string) (string, error) {
				return "", dictgen.Errorf(dictgen.EDOWNSTREAM, "boom")
			},
		}
		node, _ := rewriteFixture(t, `<img src="a.png">`)

		err := gq.RewriteSubtree(context.Background(), node, index, images, base, false)

		require.Error(t, err)
		assert.Equal(t, dictgen.EDOWNSTREAM, dictgen.ErrorCode(err))
		assert.Contains(t, err.Error(), "a.png")
	})
}
