package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/crawl"
)

// ChunkCounter reports how many chunks are indexed for a state.
type ChunkCounter interface {
	CountChunks(ctx context.Context, state string) (int, error)
}

// Archive receives stored documents during a crawl and is committed when
// the crawl succeeds.
type Archive interface {
	lawdoc.DocumentWriter
	Commit() error
	Abort() error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Sitemaps lawdoc.SitemapService
	Jobs     lawdoc.JobService
	Runner   *crawl.JobRunner
	Archive  Archive
	Asker    lawdoc.Asker
	Counter  ChunkCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"C" env:"LAWDOC_CONFIG" default:"lawdoc.yaml" help:"Path to the YAML configuration file"`
	Verbose bool   `short:"v" help:"Log every fetch, search and completion"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl state documentation sites and index them"`
	Ask    AskCmd    `cmd:"" help:"Ask a question about a state's documentation"`
	Job    JobCmd    `cmd:"" help:"Show the status of a crawl job"`
	States StatesCmd `cmd:"" help:"List supported states and their indexed chunks"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	State          string   `arg:"" help:"State the documentation belongs to"`
	URLs           []string `arg:"" name:"url" help:"Seed URLs to crawl"`
	Preview        bool     `short:"p" help:"List sitemap URLs in scope without crawling"`
	Filter         []string `short:"F" name:"filter" help:"Only crawl URLs matching regex (repeatable)"`
	Exclude        []string `short:"X" name:"exclude" help:"Skip URLs matching regex (repeatable)"`
	Concurrency    int      `short:"c" help:"Concurrent fetch limit (default from config)"`
	MaxRequests    int      `short:"n" help:"Maximum pages to fetch (default from config)"`
	RestrictToPath bool     `help:"Stay inside the seed URL's directory"`
	Archive        bool     `short:"a" help:"Also write normalized markdown to the archive directory"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	State    string   `arg:"" help:"State whose documentation to search"`
	Question []string `arg:"" help:"Question to ask about the documentation"`
	JSON     bool     `help:"Print the result as JSON"`
}

// JobCmd is the "job" subcommand.
type JobCmd struct {
	ID string `arg:"" help:"Job ID printed by the crawl command"`
}

// StatesCmd is the "states" subcommand.
type StatesCmd struct{}
