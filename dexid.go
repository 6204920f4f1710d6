package dictgen

import (
	"fmt"
	"strconv"
	"strings"
)

// DexID identifies a Pokémon by its National Pokédex number.
// IDs are strictly positive and ordered; the zero value is not a valid ID.
type DexID uint32

// ParseDexID parses a Pokédex number from its textual form, with or without
// the leading "#" marker (e.g. "#0007" or "7").
func ParseDexID(s string) (DexID, error) {
	value := strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, Errorf(EPARSE, "invalid dex id %q: %w", s, err)
	}
	if n == 0 {
		return 0, Errorf(EPARSE, "invalid dex id %q: must be positive", s)
	}
	return DexID(n), nil
}

// String formats the ID the way the wiki displays it: "#" followed by the
// zero-padded four-digit number.
func (id DexID) String() string {
	return fmt.Sprintf("#%04d", uint32(id))
}

// Prev returns the preceding ID. The second return value is false when no
// predecessor exists (there is nothing below #0001).
func (id DexID) Prev() (DexID, bool) {
	if id <= 1 {
		return 0, false
	}
	return id - 1, true
}

// Next returns the following ID.
func (id DexID) Next() DexID {
	return id + 1
}
