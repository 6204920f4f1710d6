package dictgen

// Config controls extraction behavior.
type Config struct {
	// HQPokemonImages loads full-resolution gallery images instead of the
	// page's thumbnails.
	HQPokemonImages bool

	// HQBodyImages does the same for images embedded in prose.
	HQBodyImages bool

	// MaxBodySections limits how many <h2>-delimited body sections are
	// kept ("Biology", "In the anime", ...).
	MaxBodySections int
}
