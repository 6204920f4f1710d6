package goquery

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, markup string) *html.Node {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)

	body := doc.Find("body")
	require.NotEmpty(t, body.Nodes)
	return body.Nodes[0]
}

func TestParseStyleAttr(t *testing.T) {
	t.Parallel()

	t.Run("parses simple declarations", func(t *testing.T) {
		t.Parallel()

		got := parseStyleAttr("a:1;b:2;")

		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
	})

	t.Run("last duplicate key wins", func(t *testing.T) {
		t.Parallel()

		got := parseStyleAttr("a:1;a:2;")

		assert.Equal(t, map[string]string{"a": "2"}, got)
	})

	t.Run("trims keys and values, drops entries without a colon", func(t *testing.T) {
		t.Parallel()

		got := parseStyleAttr(" display : none ; nonsense ; background: url(x:y) ")

		assert.Equal(t, map[string]string{
			"display":    "none",
			"background": "url(x:y)",
		}, got)
	})
}

func TestAttr(t *testing.T) {
	t.Parallel()

	body := parseBody(t, `<div id="x" style="display:none">text</div>`)
	div := firstChildOfTag(body, "div")
	require.NotNil(t, div)

	v, ok := attr(div, "id")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = attr(div, "class")
	assert.False(t, ok)

	// text nodes have no attributes
	_, ok = attr(div.FirstChild, "id")
	assert.False(t, ok)
}

func TestFirstChildOfTag(t *testing.T) {
	t.Parallel()

	body := parseBody(t, `<p>skip</p><table><tbody><tr></tr></tbody></table><table id="second"></table>`)

	table := firstChildOfTag(body, "table")
	require.NotNil(t, table)
	_, hasID := attr(table, "id")
	assert.False(t, hasID, "must return the first matching child")

	assert.Nil(t, firstChildOfTag(body, "ul"))
	// only immediate children match
	assert.Nil(t, firstChildOfTag(body, "tr"))
}

func TestElementChildren(t *testing.T) {
	t.Parallel()

	body := parseBody(t, `<p>a</p> text <p>b</p><!-- comment --><p>c</p>`)

	children := elementChildren(body)
	assert.Len(t, children, 3)
}

func TestNodeText(t *testing.T) {
	t.Parallel()

	body := parseBody(t, `<p>Gender <b>ratio</b>: unknown</p>`)

	assert.Equal(t, "Gender ratio: unknown", nodeText(firstChildOfTag(body, "p")))
}
