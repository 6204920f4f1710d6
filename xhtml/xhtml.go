// Package xhtml serializes parsed HTML subtrees as the strict XHTML dialect
// the dictionary compiler consumes: single namespace, every element
// explicitly closed, attribute values quoted and escaped.
package xhtml

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")
)

// EscapeText escapes s for use as XHTML text content. Quotes pass through
// unescaped.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes s for use inside a double-quoted attribute value.
// Angle brackets pass through unescaped.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// Serialize returns the markup for n and its entire subtree.
//
// Input is always locally parsed, trusted markup, so a node outside the HTML
// namespace is a programming error and panics rather than returning an
// error. Void elements are emitted with explicit closing tags; the parser
// guarantees they have no children.
func Serialize(n *html.Node) string {
	var b strings.Builder
	serializeNode(&b, n)
	return b.String()
}

// SerializeChildren returns the markup for n's children only, omitting n's
// own tags. Used to capture a caption's formatted content.
func SerializeChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		serializeNode(&b, c)
	}
	return b.String()
}

func serializeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		if n.Namespace != "" {
			panic(fmt.Sprintf("xhtml: unexpected namespace %q on <%s>", n.Namespace, n.Data))
		}
		name := strings.ToLower(n.Data)
		b.WriteByte('<')
		b.WriteString(name)
		for _, a := range n.Attr {
			if a.Namespace != "" {
				panic(fmt.Sprintf("xhtml: unexpected attribute namespace %q on %s", a.Namespace, a.Key))
			}
			b.WriteByte(' ')
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(EscapeAttr(a.Val))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			serializeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(name)
		b.WriteByte('>')
	case html.TextNode:
		b.WriteString(EscapeText(n.Data))
	case html.CommentNode:
		// processing instructions also land here: the parser stores
		// <?target data?> as a comment node
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case html.DoctypeNode:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.Data)
		b.WriteByte('>')
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			serializeNode(b, c)
		}
	case html.RawNode:
		b.WriteString(n.Data)
	}
}
