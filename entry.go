package dictgen

// Entry is the structured extraction result for one Pokémon page.
// All markup-valued fields hold fragments already serialized by the xhtml
// package. An Entry is created once per source page and never mutated
// afterward; the dict package consumes it read-only.
type Entry struct {
	// URL is the source page the entry was extracted from.
	URL string

	// InfoBoxStyle holds the allow-listed inline style properties
	// (background, border, padding, text-align) shared by the two
	// re-rendered info-box tables.
	InfoBoxStyle map[string]string

	DexID DexID
	Name  string

	// CategoriesHTML holds one serialized fragment per category line
	// ("Seed Pokémon" etc.); categories may themselves contain markup.
	CategoriesHTML []string

	// Japanese name as plain text and as a serialized fragment, plus the
	// romanized transliteration fragment.
	NameJPText         string
	NameJPHTML         string
	NameJPTranslitHTML string

	// Images holds the header gallery images in document order.
	Images []EntryImage

	// TopInfoHTML and ExtraInfoHTML hold serialized <tr> fragments of the
	// info box, partitioned at the first row starting with the "Gender
	// ratio" label. The two collections are disjoint and ordered.
	TopInfoHTML   []string
	ExtraInfoHTML []string

	SummaryHTML string
	BodyHTML    string
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.URL == "" {
		return Errorf(EINVALID, "entry source URL required")
	}
	if e.DexID == 0 {
		return Errorf(EINVALID, "entry dex id required")
	}
	if e.Name == "" {
		return Errorf(EINVALID, "entry name required")
	}
	return nil
}

// EntryImage describes one gallery image of an entry.
type EntryImage struct {
	// Href is the absolute URL of the image's containing link.
	Href string

	// Alt is the image's alternative text.
	Alt string

	// Width is the declared display width in pixels.
	Width int

	// Src is the cache-relative path the viewer loads the image from.
	Src string

	// Caption, if present, as plain text and as an inner-markup fragment.
	CaptionText string
	CaptionHTML string
	HasCaption  bool

	// Flex marks images that shared a gallery row with at least one
	// sibling; a maximal run of adjacent flex images is laid out as one
	// group.
	Flex bool
}
