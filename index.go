package dictgen

import "slices"

// Index maps Pokédex numbers to their wiki pages and groups them by
// generation. It is built once from the National Pokédex list page and is
// read-only afterward, so it may be shared freely across workers.
type Index struct {
	// Pages maps each ID to the absolute URL of its wiki page.
	Pages map[DexID]string

	// Generations holds the IDs introduced by each generation, in document
	// order. Generations[0] is Generation I.
	Generations [][]DexID
}

// IDs returns all known IDs in ascending order.
func (idx *Index) IDs() []DexID {
	ids := make([]DexID, 0, len(idx.Pages))
	for id := range idx.Pages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Lookup returns the ID whose page URL equals url, if any.
func (idx *Index) Lookup(url string) (DexID, bool) {
	for id, page := range idx.Pages {
		if page == url {
			return id, true
		}
	}
	return 0, false
}

// Validate checks the index invariants: at least one page, and every ID in a
// generation group present in the page mapping. Generation groups are
// gapless by construction (the parser rejects out-of-order headings).
func (idx *Index) Validate() error {
	if len(idx.Pages) == 0 {
		return Errorf(EINVALID, "index has no pages")
	}
	for i, gen := range idx.Generations {
		for _, id := range gen {
			if _, ok := idx.Pages[id]; !ok {
				return Errorf(EINVALID, "generation %d lists unknown id %s", i+1, id)
			}
		}
	}
	return nil
}

var romanValues = map[byte]int{
	'I': 1,
	'V': 5,
	'X': 10,
	'L': 50,
	'C': 100,
}

// ParseRoman parses a Roman numeral as used by the wiki's generation
// headings ("I" through at most small double digits). Values must not
// increase from symbol to symbol, and after a subtractive pair only symbols
// below the subtracted unit may follow, so malformed numerals like "IXI" or
// "IIX" are rejected rather than silently misread.
func ParseRoman(s string) (int, error) {
	if s == "" {
		return 0, Errorf(EPARSE, "empty roman numeral")
	}
	total := 0
	// largest value the next symbol or pair may contribute
	limit := romanValues['C'] * 10
	for i := 0; i < len(s); i++ {
		value, ok := romanValues[s[i]]
		if !ok {
			return 0, Errorf(EPARSE, "invalid roman numeral %q", s)
		}
		if i+1 < len(s) {
			if next, ok := romanValues[s[i+1]]; ok && next > value {
				// subtractive pair: only I, X, C subtract, and only
				// from the next two steps up (IV, IX, XL, XC, ...)
				if next != value*5 && next != value*10 {
					return 0, Errorf(EPARSE, "invalid roman numeral %q", s)
				}
				pair := next - value
				if pair > limit {
					return 0, Errorf(EPARSE, "invalid roman numeral %q", s)
				}
				total += pair
				limit = value - 1
				i++
				continue
			}
		}
		if value > limit {
			return 0, Errorf(EPARSE, "invalid roman numeral %q", s)
		}
		total += value
		limit = value
	}
	return total, nil
}
