// Package dictgen builds an offline dictionary from the Bulbapedia wiki.
// It scrapes the National Pokédex index, extracts one structured entry per
// Pokémon page under strict layout assumptions, and re-serializes the
// extracted content as the XHTML dialect consumed by Apple's Dictionary
// Development Kit.
//
// This package contains domain types and collaborator interfaces following
// Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// http/, imaging/, sqlite/).
package dictgen
