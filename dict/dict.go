// Package dict assembles extracted entries into the Dictionary Development
// Kit's source XML. Markup-valued entry fields are spliced in as-is; they
// were already serialized by the xhtml package.
package dict

import (
	"fmt"
	"sort"
	"strings"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
	"github.com/cpsdqs/pokedex-dictgen/xhtml"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<!-- generated file -->
<d:dictionary xmlns="http://www.w3.org/1999/xhtml" xmlns:d="http://www.apple.com/DTDs/DictionaryService-1.0.rng">
`

var rawFixups = strings.NewReplacer(
	// &nbsp; doesn't exist in this dialect
	"&nbsp;", " ",
	// the dictionary compiler eats spaces between elements
	"</b> <i", "</b> <wbr/><i",
	"</a> <a", "</a> <wbr/><a",
)

// raw prepares an already-serialized fragment for splicing into the output.
func raw(s string) string {
	return rawFixups.Replace(s)
}

// Generate renders the complete dictionary document from entries, in
// ascending ID order.
func Generate(entries map[dictgen.DexID]*dictgen.Entry) (string, error) {
	ids := make([]dictgen.DexID, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out strings.Builder
	out.WriteString(header)

	for _, id := range ids {
		entry := entries[id]
		if err := entry.Validate(); err != nil {
			return "", dictgen.Errorf(dictgen.ErrorCode(err), "error generating entry %s: %w", id, err)
		}
		writeEntry(&out, entry)
	}

	out.WriteString("</d:dictionary>")
	return out.String(), nil
}

func writeEntry(out *strings.Builder, entry *dictgen.Entry) {
	fmt.Fprintf(out, "<d:entry id=\"pokemon-%d\" d:title=\"%s\">\n", uint32(entry.DexID), xhtml.EscapeAttr(entry.Name))

	namesSeen := map[string]bool{
		entry.Name:       true,
		entry.NameJPText: true,
	}
	fmt.Fprintf(out, "<d:index d:value=\"%s\" />\n", xhtml.EscapeAttr(entry.Name))
	fmt.Fprintf(out, "<d:index d:value=\"%s\" />\n", xhtml.EscapeAttr(entry.NameJPText))

	// captions name alternate forms; index them anchored to their image
	for i, img := range entry.Images {
		if !img.HasCaption {
			continue
		}
		name := img.CaptionText
		if !strings.Contains(name, entry.Name) {
			// stuff like "Spring Form", which does not contain the
			// name, so we'll add it
			name = fmt.Sprintf("%s - %s", entry.Name, name)
		}
		if namesSeen[name] {
			continue
		}
		fmt.Fprintf(out, "<d:index d:value=\"%s\" d:anchor=\"xpointer(//*[@id='pokemon-image-%d'])\" />\n", xhtml.EscapeAttr(name), i)
		namesSeen[name] = true
	}

	out.WriteString("<div class=\"outer-container\">\n")
	fmt.Fprintf(out, "<div class=\"pokedex-id\">%s</div>\n", entry.DexID)
	fmt.Fprintf(out, "<h1 class=\"pokemon-name\">%s</h1>\n", xhtml.EscapeText(entry.Name))

	out.WriteString("<ul class=\"pokemon-categories\">\n")
	for _, category := range entry.CategoriesHTML {
		fmt.Fprintf(out, "<li>%s</li>\n", raw(category))
	}
	out.WriteString("</ul>\n")

	fmt.Fprintf(out, "<div class=\"pokemon-name-jp\">%s (%s)</div>\n", raw(entry.NameJPHTML), raw(entry.NameJPTranslitHTML))

	writeImages(out, entry.Images)

	style := formatStyle(entry.InfoBoxStyle)

	fmt.Fprintf(out, "<table class=\"roundy top-info-box\" style=\"%s\"><tbody>\n", xhtml.EscapeAttr(style))
	for _, tr := range entry.TopInfoHTML {
		out.WriteString(raw(tr))
		out.WriteByte('\n')
	}
	out.WriteString("</tbody></table>\n")

	out.WriteString(raw(entry.SummaryHTML))
	out.WriteByte('\n')

	fmt.Fprintf(out, "<table class=\"roundy extra-info-box\" style=\"%s\"><tbody>\n", xhtml.EscapeAttr(style))
	for _, tr := range entry.ExtraInfoHTML {
		out.WriteString(raw(tr))
		out.WriteByte('\n')
	}
	out.WriteString("</tbody></table>\n")

	out.WriteString(raw(entry.BodyHTML))
	out.WriteByte('\n')

	fmt.Fprintf(out, "<div class=\"footer-read-more\"><a href=\"%s\">Read more on Bulbapedia</a></div>\n", xhtml.EscapeAttr(entry.URL))

	out.WriteString("</div></d:entry>\n")
}

// writeImages renders the gallery. A maximal run of adjacent flex images
// becomes one nested list so the viewer lays the run out as a row.
func writeImages(out *strings.Builder, images []dictgen.EntryImage) {
	out.WriteString("<ul class=\"pokemon-images\">\n")

	i := 0
	for i < len(images) {
		if images[i].Flex && i+1 < len(images) && images[i+1].Flex {
			out.WriteString("<li class=\"pokemon-images-flex\"><ul>\n")
			for i < len(images) && images[i].Flex {
				writeImage(out, &images[i], i)
				i++
			}
			out.WriteString("</ul></li>\n")
		} else {
			writeImage(out, &images[i], i)
			i++
		}
	}

	out.WriteString("</ul>\n")
}

func writeImage(out *strings.Builder, img *dictgen.EntryImage, i int) {
	fmt.Fprintf(out, "<li class=\"pokemon-image\" id=\"pokemon-image-%d\">\n", i)
	fmt.Fprintf(out, "<img alt=\"%s\" src=\"%s\" style=\"width: %dpx\" />\n",
		xhtml.EscapeAttr(img.Alt), xhtml.EscapeAttr(img.Src), img.Width)
	if img.HasCaption {
		fmt.Fprintf(out, "<div class=\"image-caption\">%s</div>\n", raw(img.CaptionHTML))
	}
	out.WriteString("</li>\n")
}

// formatStyle renders the shared info-box style in deterministic key order.
func formatStyle(style map[string]string) string {
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(style[k])
		b.WriteByte(';')
	}
	return b.String()
}
