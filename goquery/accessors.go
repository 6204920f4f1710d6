// Package goquery implements wiki page parsing for dictgen: the structural
// entry extractor, the image source resolver, the link/image rewriter, and
// the index page parser.
//
// The extractor intentionally over-validates. It encodes an exact, versioned
// expectation of the wiki's page layout and fails with a descriptive error
// the instant an expectation is violated; a partial record is never
// produced.
package goquery

import (
	"strings"

	"golang.org/x/net/html"
)

// attr returns the value of the named attribute of n, if present.
// Non-element nodes have no attributes.
func attr(n *html.Node, name string) (string, bool) {
	if !isElement(n) {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// attrOr is attr with a default for the missing case.
func attrOr(n *html.Node, name, def string) string {
	if v, ok := attr(n, name); ok {
		return v
	}
	return def
}

// firstChildOfTag returns the first immediate child element of n with the
// given tag, in document order, or nil.
func firstChildOfTag(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c) && c.Data == tag {
			return c
		}
	}
	return nil
}

func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// elementChildren returns n's immediate element children in document order.
func elementChildren(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c) {
			children = append(children, c)
		}
	}
	return children
}

// nodeText returns the concatenated text content of n's subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// parseStyleAttr parses an inline "key:value;" style attribute into a map.
// Entries without a colon are dropped; later duplicate keys overwrite
// earlier ones. This is deliberately not a CSS parser: the extractor only
// ever inspects simple properties the wiki emits in this shape.
func parseStyleAttr(style string) map[string]string {
	values := make(map[string]string)
	for _, entry := range strings.Split(style, ";") {
		key, value, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return values
}

// styleOf parses n's style attribute, returning an empty map if absent.
func styleOf(n *html.Node) map[string]string {
	s, ok := attr(n, "style")
	if !ok {
		return nil
	}
	return parseStyleAttr(s)
}
