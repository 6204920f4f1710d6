package goquery

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
	"github.com/cpsdqs/pokedex-dictgen/xhtml"
)

// firstExtraInfoRow is the label of the first info-box row that belongs to
// the "extra" partition. Every row from it onward is rendered after the
// summary instead of before it.
const firstExtraInfoRow = "Gender ratio"

// infoBoxStyleAllowList is the set of inline style properties carried over
// from the source info box to the re-rendered tables.
var infoBoxStyleAllowList = []string{"background", "border", "padding", "text-align"}

// ExtractEntry parses rawHTML and extracts the complete entry record for one
// Pokémon page. The page must match the expected layout exactly; any
// deviation fails with an error naming the violated expectation. sourceURL
// is the page's own URL, used to resolve relative references.
func ExtractEntry(ctx context.Context, rawHTML string, index *dictgen.Index, images dictgen.ImageCache, cfg dictgen.Config, sourceURL string) (*dictgen.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, dictgen.Errorf(dictgen.EPARSE, "error parsing page: %v", err)
	}
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, dictgen.Errorf(dictgen.EINVALID, "invalid source URL %q: %v", sourceURL, err)
	}

	infoBox := doc.Find("table.roundy").First()
	if infoBox.Length() == 0 {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "could not find info box")
	}

	infoBoxStyle := make(map[string]string)
	for key, value := range styleOf(infoBox.Nodes[0]) {
		for _, allowed := range infoBoxStyleAllowList {
			if key == allowed {
				infoBoxStyle[key] = value
			}
		}
	}

	tbody := firstChildOfTag(infoBox.Nodes[0], "tbody")
	if tbody == nil {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no info box tbody")
	}

	// The first row is the header block; every later row goes to "top"
	// until a row's text starts with the extra-partition label, which
	// flips the state permanently.
	var headerRow *html.Node
	var topRows, extraRows []*html.Node
	isExtra := false
	for _, tr := range elementChildren(tbody) {
		if headerRow == nil {
			headerRow = tr
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(nodeText(tr)), firstExtraInfoRow) {
			isExtra = true
		}
		if isExtra {
			extraRows = append(extraRows, tr)
		} else {
			topRows = append(topRows, tr)
		}
	}
	if headerRow == nil {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no header box")
	}

	header, err := extractHeader(ctx, headerRow, images, cfg, base)
	if err != nil {
		return nil, err
	}

	for _, rows := range [][]*html.Node{topRows, extraRows} {
		for _, tr := range rows {
			if err := RewriteSubtree(ctx, tr, index, images, base, cfg.HQBodyImages); err != nil {
				return nil, dictgen.Errorf(dictgen.ErrorCode(err), "error fixing info box links: %w", err)
			}
		}
	}

	topHTML := make([]string, 0, len(topRows))
	for _, tr := range topRows {
		topHTML = append(topHTML, xhtml.Serialize(tr))
	}
	extraHTML := make([]string, 0, len(extraRows))
	for _, tr := range extraRows {
		extraHTML = append(extraHTML, xhtml.Serialize(tr))
	}

	summaryHTML, bodyHTML, err := extractBody(ctx, doc, index, images, cfg, base)
	if err != nil {
		return nil, err
	}

	return &dictgen.Entry{
		URL:                sourceURL,
		InfoBoxStyle:       infoBoxStyle,
		DexID:              header.dexID,
		Name:               header.name,
		CategoriesHTML:     header.categoriesHTML,
		NameJPText:         header.nameJPText,
		NameJPHTML:         header.nameJPHTML,
		NameJPTranslitHTML: header.nameJPTranslitHTML,
		Images:             header.images,
		TopInfoHTML:        topHTML,
		ExtraInfoHTML:      extraHTML,
		SummaryHTML:        summaryHTML,
		BodyHTML:           bodyHTML,
	}, nil
}

// headerData holds everything extracted from the info box's header row.
type headerData struct {
	name               string
	categoriesHTML     []string
	nameJPText         string
	nameJPHTML         string
	nameJPTranslitHTML string
	dexID              dictgen.DexID
	images             []dictgen.EntryImage
}

// extractHeader validates and extracts the header row: a single sub-table
// with exactly two rows, the first holding the name box and the dex number,
// the second the image gallery.
func extractHeader(ctx context.Context, headerRow *html.Node, images dictgen.ImageCache, cfg dictgen.Config, base *url.URL) (*headerData, error) {
	td := firstChildOfTag(headerRow, "td")
	if td == nil {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no header box > td")
	}
	table := firstChildOfTag(td, "table")
	if table == nil {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no header box > td > table")
	}
	tbody := firstChildOfTag(table, "tbody")
	if tbody == nil {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no header box > td > table > tbody")
	}
	trs := elementChildren(tbody)
	if len(trs) != 2 {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "unexpected header box tr count: want 2, got %d", len(trs))
	}

	cells := elementChildren(trs[0])
	if len(cells) != 2 {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "unexpected header box tr > td count: want 2, got %d", len(cells))
	}

	header := &headerData{}
	if err := extractNameBox(cells[0], header); err != nil {
		return nil, err
	}

	dexLink := goquery.NewDocumentFromNode(cells[1]).Find("a").First()
	if dexLink.Length() == 0 {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "could not find dex id")
	}
	dexID, err := dictgen.ParseDexID(strings.TrimSpace(dexLink.Text()))
	if err != nil {
		return nil, err
	}
	header.dexID = dexID

	gallery, err := extractGallery(ctx, trs[1], images, cfg, base)
	if err != nil {
		return nil, err
	}
	header.images = gallery

	return header, nil
}

// extractNameBox extracts the display name and categories from the English
// column and the native name and transliteration from the Japanese column.
func extractNameBox(nameBox *html.Node, header *headerData) error {
	table := firstChildOfTag(nameBox, "table")
	if table == nil {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "no name box > table")
	}
	tbody := firstChildOfTag(table, "tbody")
	if tbody == nil {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "no name box > table > tbody")
	}
	tr := firstChildOfTag(tbody, "tr")
	if tr == nil {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "no name box > table > tbody > tr")
	}
	tds := elementChildren(tr)
	if len(tds) != 2 {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "unexpected name box td count: want 2, got %d", len(tds))
	}

	englishBox := goquery.NewDocumentFromNode(tds[0]).Selection

	big := englishBox.Find("big").First()
	if big.Length() == 0 {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "missing name box <big>")
	}
	header.name = strings.TrimSpace(big.Text())

	categoryLink := englishBox.Find("a[title]").First()
	if categoryLink.Length() == 0 {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "missing name box categories")
	}
	categoryItems := elementChildren(categoryLink.Nodes[0])
	if len(categoryItems) != 1 {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "unexpected name box category item count: want 1, got %d", len(categoryItems))
	}

	// Each explicit line break starts a new category fragment; sibling
	// nodes between breaks concatenate into one fragment.
	var categories []string
	for node := categoryItems[0].FirstChild; node != nil; node = node.NextSibling {
		if isElement(node) && node.Data == "br" {
			categories = append(categories, "")
			continue
		}
		fragment := xhtml.Serialize(node)
		if len(categories) > 0 {
			categories[len(categories)-1] += fragment
		} else {
			categories = append(categories, fragment)
		}
	}
	if len(categories) > 0 && categories[len(categories)-1] == "" {
		categories = categories[:len(categories)-1]
	}
	header.categoriesHTML = categories

	jp := goquery.NewDocumentFromNode(tds[1]).Selection

	nameJP := jp.Find("[lang='ja']").First()
	if nameJP.Length() == 0 {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "could not find jp name")
	}
	header.nameJPText = strings.TrimSpace(nameJP.Text())
	header.nameJPHTML = xhtml.Serialize(nameJP.Nodes[0])

	translit := jp.Find("i").First()
	if translit.Length() == 0 {
		return dictgen.Errorf(dictgen.ESTRUCTURE, "could not find jp translit")
	}
	header.nameJPTranslitHTML = xhtml.Serialize(translit.Nodes[0])

	return nil
}

// extractGallery walks the gallery table's rows. Hidden rows and cells
// (display:none) are skipped entirely; a row with more than one visible cell
// marks all of its images as part of a flex group. A visible cell without an
// image is an unhandled layout case unless the row references the external
// archive.
func extractGallery(ctx context.Context, galleryRow *html.Node, images dictgen.ImageCache, cfg dictgen.Config, base *url.URL) ([]dictgen.EntryImage, error) {
	td := firstChildOfTag(galleryRow, "td")
	if td == nil {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no img box > td")
	}
	table := firstChildOfTag(td, "table")
	if table == nil {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no img box > td > table")
	}
	tbody := firstChildOfTag(table, "tbody")
	if tbody == nil {
		return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no img box > td > table > tbody")
	}

	var result []dictgen.EntryImage
	for _, tr := range elementChildren(tbody) {
		if styleOf(tr)["display"] == "none" {
			continue
		}

		visible := 0
		for _, cell := range elementChildren(tr) {
			if styleOf(cell)["display"] != "none" {
				visible++
			}
		}

		for _, cell := range elementChildren(tr) {
			if styleOf(cell)["display"] == "none" {
				continue
			}

			img := goquery.NewDocumentFromNode(cell).Find("img").First()
			if img.Length() == 0 {
				if !strings.Contains(nodeText(tr), "Archives") {
					return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "unexpected img box child: %s", xhtml.Serialize(tr))
				}
				continue
			}
			imgNode := img.Nodes[0]

			src := bestImageSource(imgNode, base, cfg.HQPokemonImages)
			if src == nil {
				return nil, dictgen.Errorf(dictgen.ESTRUCTURE, "no img src")
			}
			cacheID, err := images.Get(ctx, src.String())
			if err != nil {
				return nil, dictgen.Errorf(dictgen.EDOWNSTREAM, "error caching image %q: %w", src.String(), err)
			}

			href, err := base.Parse(attrOr(imgNode.Parent, "href", ""))
			if err != nil {
				return nil, dictgen.Errorf(dictgen.EPARSE, "error resolving image link: %v", err)
			}

			width, err := strconv.Atoi(attrOr(imgNode, "width", ""))
			if err != nil {
				return nil, dictgen.Errorf(dictgen.EPARSE, "error parsing img width: %v", err)
			}

			entry := dictgen.EntryImage{
				Href:  href.String(),
				Alt:   attrOr(imgNode, "alt", ""),
				Width: width,
				Src:   "images/" + url.PathEscape(cacheID),
				Flex:  visible > 1,
			}

			caption := goquery.NewDocumentFromNode(cell).Find("small").First()
			if caption.Length() > 0 {
				entry.CaptionText = caption.Text()
				entry.CaptionHTML = xhtml.SerializeChildren(caption.Nodes[0])
				entry.HasCaption = true
			}

			result = append(result, entry)
		}
	}

	return result, nil
}

// extractBody walks the top-level children of the main content container.
// Everything before the table-of-contents marker is summary, everything
// after is body; the first two tables are the already-extracted header and
// info boxes and are skipped; extraction stops once the configured number of
// <h2> sections has been passed.
func extractBody(ctx context.Context, doc *goquery.Document, index *dictgen.Index, images dictgen.ImageCache, cfg dictgen.Config, base *url.URL) (summary, body string, err error) {
	content := doc.Find(".mw-parser-output").First()
	if content.Length() == 0 {
		return "", "", dictgen.Errorf(dictgen.ESTRUCTURE, "no mw-parser-output")
	}

	var summaryHTML, bodyHTML strings.Builder
	tablesSeen := 0
	h2sSeen := 0
	inBody := false

	for node := content.Nodes[0].FirstChild; node != nil; node = node.NextSibling {
		if id, ok := attr(node, "id"); ok && id == "toc" {
			inBody = true
			continue
		}
		if isElement(node) && node.Data == "table" {
			tablesSeen++
			if tablesSeen < 3 {
				// skip the header and info box
				continue
			}
		}
		if isElement(node) && node.Data == "h2" {
			h2sSeen++
		}
		if h2sSeen > cfg.MaxBodySections {
			break
		}

		if err := RewriteSubtree(ctx, node, index, images, base, cfg.HQBodyImages); err != nil {
			return "", "", dictgen.Errorf(dictgen.ErrorCode(err), "error fixing summary links: %w", err)
		}

		if inBody {
			bodyHTML.WriteString(xhtml.Serialize(node))
		} else {
			summaryHTML.WriteString(xhtml.Serialize(node))
		}
	}

	return summaryHTML.String(), bodyHTML.String(), nil
}
