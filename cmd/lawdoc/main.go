package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/crawl"
	"github.com/fwojciec/lawdoc/embed"
	"github.com/fwojciec/lawdoc/fs"
	"github.com/fwojciec/lawdoc/gemini"
	"github.com/fwojciec/lawdoc/goquery"
	"github.com/fwojciec/lawdoc/htmltomarkdown"
	lawhttp "github.com/fwojciec/lawdoc/http"
	"github.com/fwojciec/lawdoc/ingest"
	"github.com/fwojciec/lawdoc/openai"
	"github.com/fwojciec/lawdoc/pdf"
	"github.com/fwojciec/lawdoc/postgres"
	"github.com/fwojciec/lawdoc/query"
	"github.com/fwojciec/lawdoc/readability"
	lawslog "github.com/fwojciec/lawdoc/slog"
	"github.com/fwojciec/lawdoc/sqlite"
	"github.com/fwojciec/lawdoc/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; variables may come from the environment.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// Config is loaded during Run unless set beforehand.
	Config *Config

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close releases every resource opened during Run.
func (m *Main) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lawdoc"),
		kong.Description("Index state legal documentation and answer questions about it"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lawdoc --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if m.Config == nil {
		cfg, err := LoadConfig(cli.Config)
		if err != nil {
			return err
		}
		cfg.ApplyEnv(m.getenv)
		m.Config = cfg
	}
	if err := m.Config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %s", lawdoc.ErrorMessage(err))
	}
	deps.Config = m.Config
	deps.Logger = newLogger(stderr, cli.Verbose)
	defer m.Close()

	switch cmd := strings.Fields(kongCtx.Command())[0]; cmd {
	case "crawl":
		err = m.wireCrawl(ctx, deps, cli)
	case "ask":
		err = m.wireAsk(ctx, deps, cli.Verbose)
	case "job":
		deps.Jobs = fs.NewJobStore(m.Config.Jobs.Dir)
	case "states":
		_, deps.Counter, err = m.openStore(ctx)
	}
	if err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

func (m *Main) wireCrawl(ctx context.Context, deps *Dependencies, cli *CLI) error {
	cfg := m.Config
	logger := deps.Logger

	var sitemaps lawdoc.SitemapService = lawhttp.NewSitemapService(nil)
	if cli.Verbose {
		sitemaps = lawslog.NewLoggingSitemapService(sitemaps, logger)
	}
	deps.Sitemaps = sitemaps

	if cli.Crawl.Preview {
		return nil
	}

	var fetcher lawdoc.Fetcher = lawhttp.NewFetcher(
		lawhttp.WithTimeout(cfg.Crawl.FetchTimeout),
		lawhttp.WithUserAgent(cfg.Crawl.UserAgent),
	)
	if cli.Verbose {
		fetcher = lawslog.NewLoggingFetcher(fetcher, logger)
	}
	m.closers = append(m.closers, fetcher.Close)

	store, _, err := m.openStore(ctx)
	if err != nil {
		return err
	}
	provider, err := m.newEmbedder(ctx, gemini.TaskRetrievalDocument)
	if err != nil {
		return err
	}
	if cli.Verbose {
		store = lawslog.NewLoggingVectorStore(store, logger)
		provider = lawslog.NewLoggingEmbedder(provider, logger)
	}

	embedder := embed.NewService(provider, logger)
	embedder.BatchSize = cfg.Embedding.BatchSize
	embedder.BatchPause = cfg.Embedding.BatchPause
	embedder.MaxRetries = cfg.Embedding.MaxRetries

	pipeline := &ingest.Pipeline{
		Normalizer: &ingest.Normalizer{
			Extractor: newExtractor(cfg.HTML.Extractor),
			Converter: htmltomarkdown.NewConverter(),
			PDF:       pdf.NewParser(),
			PDFLinks:  goquery.NewPDFLinkFinder(),
			Fetcher:   fetcher,
		},
		Indexer: &ingest.Indexer{
			Embedder: embedder,
			Store:    store,
			Split:    lawdoc.SplitOptions{Size: cfg.Chunk.Size, Overlap: cfg.Chunk.Overlap},
			Logger:   logger,
		},
		Links:  goquery.NewLinkExtractor(),
		Logger: logger,
	}

	// Token counts are informational; crawl without them if the local
	// tokenizer cannot be loaded.
	if counter, err := gemini.NewTokenCounter(gemini.DefaultModel); err == nil {
		pipeline.TokenCounter = counter
	} else {
		logger.Debug("token counting disabled", "err", err)
	}

	if cli.Crawl.Archive {
		dir := cfg.Jobs.ArchiveDir
		if dir == "" {
			dir = defaultDataPath("archive")
		}
		state, err := lawdoc.NormalizeState(cli.Crawl.State)
		if err != nil {
			return err
		}
		archive := fs.NewArchive(dir, strings.ReplaceAll(strings.ToLower(state), " ", "-"))
		pipeline.Archive = archive
		deps.Archive = archive
	}

	crawler := &crawl.Crawler{
		Fetcher:          fetcher,
		Processor:        pipeline,
		Robots:           lawhttp.NewRobotsPolicy(&http.Client{Timeout: cfg.Crawl.FetchTimeout}, cfg.Crawl.UserAgent, logger),
		RateLimiter:      crawl.NewPolitenessLimiter(cfg.Crawl.PolitenessDelay),
		Logger:           logger,
		Concurrency:      cfg.Crawl.Concurrency,
		MaxRequests:      cfg.Crawl.MaxRequests,
		MaxRetries:       cfg.Crawl.MaxRetries,
		Backoff:          lawdoc.Backoff{Base: cfg.Crawl.RetryBase, Max: cfg.Crawl.RetryMax},
		RestrictToPath:   cfg.Crawl.RestrictToPath,
		ProgressInterval: cfg.Crawl.ProgressInterval,
	}
	if cfg.Crawl.UseSitemaps {
		crawler.Sitemaps = sitemaps
	}

	deps.Jobs = fs.NewJobStore(cfg.Jobs.Dir)
	deps.Runner = &crawl.JobRunner{Jobs: deps.Jobs, Crawler: crawler, Logger: logger}
	return nil
}

func (m *Main) wireAsk(ctx context.Context, deps *Dependencies, verbose bool) error {
	cfg := m.Config
	logger := deps.Logger

	store, _, err := m.openStore(ctx)
	if err != nil {
		return err
	}
	embedder, err := m.newEmbedder(ctx, gemini.TaskRetrievalQuery)
	if err != nil {
		return err
	}
	completer, err := m.newCompleter(ctx)
	if err != nil {
		return err
	}
	if verbose {
		store = lawslog.NewLoggingVectorStore(store, logger)
		embedder = lawslog.NewLoggingEmbedder(embedder, logger)
		completer = lawslog.NewLoggingCompleter(completer, logger)
	}

	svc := query.NewService(embed.NewService(embedder, logger), store, completer, logger)
	svc.TopK = cfg.Query.TopK
	svc.MaxRetries = cfg.LLM.MaxRetries
	if len(cfg.Query.Keywords) > 0 {
		scoring := lawdoc.DefaultScoreOptions()
		scoring.Keywords = cfg.Query.Keywords
		svc.Scoring = &scoring
	}
	deps.Asker = svc
	return nil
}

// openStore opens the configured vector store. The store is closed by
// Close.
func (m *Main) openStore(ctx context.Context) (lawdoc.VectorStore, ChunkCounter, error) {
	cfg := m.Config
	switch cfg.Store.Driver {
	case DriverPostgres:
		db := postgres.NewDB(cfg.Store.PostgresURL, m.dimensions())
		if err := db.Open(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		m.closers = append(m.closers, func() error { db.Close(); return nil })
		store := postgres.NewVectorStore(db)
		return store, store, nil
	default:
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create database directory %q: %w", dir, err)
			}
		}
		db := sqlite.NewDB(cfg.Store.Path)
		if err := db.Open(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q: %w (set LAWDOC_DB to use a different path)", cfg.Store.Path, err)
		}
		m.closers = append(m.closers, db.Close)
		store := sqlite.NewVectorStore(db)
		return store, store, nil
	}
}

// dimensions returns the embedding size for the configured provider.
func (m *Main) dimensions() int {
	if m.Config.Embedding.Dimensions > 0 {
		return m.Config.Embedding.Dimensions
	}
	if m.Config.Embedding.Provider == ProviderGemini {
		return gemini.DefaultEmbeddingDimensions
	}
	return postgres.DefaultDimensions
}

// newEmbedder returns the configured embedding provider. taskType selects
// document or query embeddings for providers that distinguish them.
func (m *Main) newEmbedder(ctx context.Context, taskType string) (lawdoc.Embedder, error) {
	cfg := m.Config.Embedding
	switch cfg.Provider {
	case ProviderGemini:
		key, err := m.requireEnv("GEMINI_API_KEY", "https://aistudio.google.com/apikey")
		if err != nil {
			return nil, err
		}
		client, err := gemini.NewClient(ctx, key, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewEmbedder(client, cfg.Model, cfg.Dimensions, gemini.WithTaskType(taskType)), nil
	default:
		key, err := m.requireEnv("OPENAI_API_KEY", "https://platform.openai.com/api-keys")
		if err != nil {
			return nil, err
		}
		return openai.NewEmbedder(openai.NewClient(key, cfg.BaseURL), cfg.Model), nil
	}
}

func (m *Main) newCompleter(ctx context.Context) (lawdoc.Completer, error) {
	cfg := m.Config.LLM
	switch cfg.Provider {
	case ProviderGemini:
		key, err := m.requireEnv("GEMINI_API_KEY", "https://aistudio.google.com/apikey")
		if err != nil {
			return nil, err
		}
		client, err := gemini.NewClient(ctx, key, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewCompleter(client, cfg.Model), nil
	default:
		key, err := m.requireEnv("OPENAI_API_KEY", "https://platform.openai.com/api-keys")
		if err != nil {
			return nil, err
		}
		return openai.NewCompleter(openai.NewClient(key, cfg.BaseURL), cfg.Model,
			openai.WithTemperature(cfg.Temperature)), nil
	}
}

func (m *Main) requireEnv(name, hint string) (string, error) {
	if v := m.getenv(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s not set. Get a key at %s", name, hint)
}

func (m *Main) getenv(name string) string {
	if m.Getenv == nil {
		return os.Getenv(name)
	}
	return m.Getenv(name)
}

func newExtractor(name string) lawdoc.Extractor {
	switch name {
	case ExtractorTrafilatura:
		return trafilatura.NewExtractor()
	case ExtractorReadability:
		return readability.NewExtractor()
	default:
		return goquery.NewExtractor()
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
