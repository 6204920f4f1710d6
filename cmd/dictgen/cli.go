package main

import "time"

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	HqPokemonImages bool          `help:"Will load high-resolution Pokémon images instead of just thumbnails. Enable this if you plan on zooming in."`
	HqBodyImages    bool          `help:"Will load high-resolution body images instead of just thumbnails. Enable this if you plan on zooming in."`
	Hq              bool          `help:"Enables both HQ Pokémon images and HQ body images."`
	MaxBodySections int           `default:"1" help:"How many body sections to load (\"Biology\", \"In the anime\", etc.)."`
	Concurrency     int           `short:"c" default:"4" help:"Concurrent page extraction limit."`
	Timeout         time.Duration `short:"t" default:"30s" help:"Fetch timeout per request."`
	DataDir         string        `default:"data" help:"Directory for the fetch cache and downloaded images."`
	Out             string        `default:"ddk/Dictionary.xml" help:"Output path for the generated dictionary source."`
	Cache           string        `default:"fs" enum:"fs,sqlite" help:"Fetch cache backend."`
	ContinueOnError bool          `help:"Keep going past failing pages instead of aborting."`
}
