package goquery

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
)

// IndexURL is the National Pokédex list page the whole run starts from.
const IndexURL = "https://bulbapedia.bulbagarden.net/wiki/List_of_Pokémon_by_National_Pokédex_number"

// ReadIndex fetches and parses the National Pokédex list page into an Index.
//
// Rows whose first cell does not parse as a dex number are skipped (section
// headers and the like); rows that do parse must carry a link to the
// Pokémon's page. Generation groups are detected from the "Generation
// <numeral>" headings preceding each table and must appear in order with no
// gaps.
func ReadIndex(ctx context.Context, fetcher dictgen.Fetcher) (*dictgen.Index, error) {
	data, err := fetcher.Get(ctx, IndexURL, true)
	if err != nil {
		return nil, dictgen.Errorf(dictgen.EDOWNSTREAM, "error fetching index: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, dictgen.Errorf(dictgen.EPARSE, "error parsing index page: %v", err)
	}
	base, err := url.Parse(IndexURL)
	if err != nil {
		return nil, dictgen.Errorf(dictgen.EINTERNAL, "invalid index URL: %v", err)
	}

	index := &dictgen.Index{Pages: make(map[dictgen.DexID]string)}

	content := doc.Find(".mw-parser-output").First()
	if content.Length() == 0 {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no mw-parser-output on index page")
	}

	for node := content.Nodes[0].FirstChild; node != nil; node = node.NextSibling {
		if !isElement(node) {
			continue
		}
		switch node.Data {
		case "h2", "h3":
			gen, ok, err := generationHeading(node)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if gen != len(index.Generations)+1 {
				return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "generation headings out of order: got %d after %d", gen, len(index.Generations))
			}
			index.Generations = append(index.Generations, nil)
		case "table":
			if err := indexTable(node, base, index); err != nil {
				return nil, err
			}
		}
	}

	if err := index.Validate(); err != nil {
		return nil, err
	}
	return index, nil
}

// generationHeading parses a "Generation <numeral>" heading. ok is false
// for unrelated headings.
func generationHeading(node *html.Node) (gen int, ok bool, err error) {
	fields := strings.Fields(nodeText(node))
	if len(fields) < 2 || fields[0] != "Generation" {
		return 0, false, nil
	}

	// the heading may carry edit-section text right after the numeral
	numeral := fields[1]
	for i := 0; i < len(numeral); i++ {
		if !strings.ContainsRune("IVXLC", rune(numeral[i])) {
			numeral = numeral[:i]
			break
		}
	}

	gen, perr := dictgen.ParseRoman(numeral)
	if perr != nil {
		return 0, false, dictgen.Errorf(dictgen.EPARSE, "error parsing generation heading %q: %w", nodeText(node), perr)
	}
	return gen, true, nil
}

// indexTable collects the dex entries of one listing table, appending their
// IDs to the current generation group if one is open.
func indexTable(table *html.Node, base *url.URL, index *dictgen.Index) error {
	var terr error
	goquery.NewDocumentFromNode(table).Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		td := tr.Find("td").First()
		if td.Length() == 0 {
			return true
		}
		id, err := dictgen.ParseDexID(strings.TrimSpace(td.Text()))
		if err != nil {
			return true
		}

		link := tr.Find("a[href$='mon)']").First()
		if link.Length() == 0 {
			terr = dictgen.Errorf(dictgen.ESTRUCTURE, "missing link for entry %s", id)
			return false
		}
		href, ok := link.Attr("href")
		if !ok {
			terr = dictgen.Errorf(dictgen.ESTRUCTURE, "missing href on link for %s", id)
			return false
		}
		page, err := base.Parse(href)
		if err != nil {
			terr = dictgen.Errorf(dictgen.EPARSE, "error resolving link for %s: %v", id, err)
			return false
		}

		if _, seen := index.Pages[id]; !seen && len(index.Generations) > 0 {
			current := len(index.Generations) - 1
			index.Generations[current] = append(index.Generations[current], id)
		}
		index.Pages[id] = page.String()
		return true
	})
	return terr
}
