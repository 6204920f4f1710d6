package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	dictgen "github.com/cpsdqs/pokedex-dictgen"
	"github.com/cpsdqs/pokedex-dictgen/crawl"
	"github.com/cpsdqs/pokedex-dictgen/dict"
	"github.com/cpsdqs/pokedex-dictgen/fs"
	gq "github.com/cpsdqs/pokedex-dictgen/goquery"
	dicthttp "github.com/cpsdqs/pokedex-dictgen/http"
	"github.com/cpsdqs/pokedex-dictgen/imaging"
	dictslog "github.com/cpsdqs/pokedex-dictgen/slog"
	"github.com/cpsdqs/pokedex-dictgen/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dictgen"),
		kong.Description("Generate an offline Pokédex dictionary from Bulbapedia"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	cfg := dictgen.Config{
		HQPokemonImages: cli.Hq || cli.HqPokemonImages,
		HQBodyImages:    cli.Hq || cli.HqBodyImages,
		MaxBodySections: cli.MaxBodySections,
	}

	// Wire the fetch cache backend
	var cache dictgen.FetchCache
	switch cli.Cache {
	case "sqlite":
		db := sqlite.NewDB(filepath.Join(cli.DataDir, "fetch_cache.db"))
		if err := os.MkdirAll(cli.DataDir, 0755); err != nil {
			return err
		}
		if err := db.Open(); err != nil {
			return err
		}
		defer db.Close()
		cache = sqlite.NewCache(db)
	default:
		cache = fs.NewCache(filepath.Join(cli.DataDir, "fetch_cache"))
	}

	fetcher := dictslog.NewFetcher(
		dicthttp.NewFetcher(cache, dicthttp.WithTimeout(cli.Timeout)),
		logger,
	)
	images := imaging.NewCache(fetcher, filepath.Join(cli.DataDir, "images"))

	index, err := gq.ReadIndex(ctx, fetcher)
	if err != nil {
		return err
	}
	logger.Info("index loaded",
		"entries", len(index.Pages),
		"generations", len(index.Generations),
	)

	crawler := &crawl.Crawler{
		Fetcher:         fetcher,
		Images:          images,
		Config:          cfg,
		Concurrency:     cli.Concurrency,
		ContinueOnError: cli.ContinueOnError,
	}

	entries, err := crawler.CrawlEntries(ctx, index, func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressFailed:
			logger.Error("page failed",
				"id", event.ID.String(),
				"url", event.URL,
				"error", event.Error,
			)
		case crawl.ProgressCompleted:
			logger.Info("page extracted",
				"id", event.ID.String(),
				"completed", event.Completed,
				"total", event.Total,
			)
		}
	})
	if err != nil {
		return err
	}

	logger.Info("generating entries", "count", len(entries))

	out, err := dict.Generate(entries)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cli.Out), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(cli.Out, []byte(out), 0644); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "done!")
	return nil
}
