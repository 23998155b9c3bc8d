package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/crawl"
	"github.com/fwojciec/lawdoc/embed"
	"github.com/fwojciec/lawdoc/query"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration, read from YAML and overlaid
// with environment variables.
type Config struct {
	Crawl     CrawlConfig     `yaml:"crawl"`
	Chunk     ChunkConfig     `yaml:"chunk"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Store     StoreConfig     `yaml:"store"`
	Query     QueryConfig     `yaml:"query"`
	HTML      HTMLConfig      `yaml:"html"`
	Jobs      JobsConfig      `yaml:"jobs"`
}

// CrawlConfig configures the crawl scheduler and HTTP client.
type CrawlConfig struct {
	Concurrency      int           `yaml:"concurrency"`
	MaxRequests      int           `yaml:"max_requests"`
	MaxRetries       int           `yaml:"max_retries"`
	RetryBase        time.Duration `yaml:"retry_base"`
	RetryMax         time.Duration `yaml:"retry_max"`
	PolitenessDelay  time.Duration `yaml:"politeness_delay"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	UserAgent        string        `yaml:"user_agent"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
	UseSitemaps      bool          `yaml:"use_sitemaps"`
	RestrictToPath   bool          `yaml:"restrict_to_path"`
}

// ChunkConfig configures text splitting.
type ChunkConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider"`
	Model      string        `yaml:"model"`
	Dimensions int           `yaml:"dimensions"`
	BatchSize  int           `yaml:"batch_size"`
	BatchPause time.Duration `yaml:"batch_pause"`
	MaxRetries int           `yaml:"max_retries"`
	BaseURL    string        `yaml:"base_url"`
}

// LLMConfig selects the completion provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxRetries  int     `yaml:"max_retries"`
	BaseURL     string  `yaml:"base_url"`
}

// StoreConfig selects the vector store.
type StoreConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	PostgresURL string `yaml:"postgres_url"`
}

// QueryConfig configures retrieval and scoring.
type QueryConfig struct {
	TopK     int      `yaml:"top_k"`
	Keywords []string `yaml:"keywords"`
}

// HTMLConfig selects the HTML content extractor.
type HTMLConfig struct {
	Extractor string `yaml:"extractor"`
}

// JobsConfig configures job status and archive storage.
type JobsConfig struct {
	Dir        string `yaml:"dir"`
	ArchiveDir string `yaml:"archive_dir"`
}

// Providers, drivers and extractors.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ExtractorGoquery     = "goquery"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// DefaultConfigPath is read when no config path is given.
const DefaultConfigPath = "lawdoc.yaml"

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	split := lawdoc.DefaultSplitOptions()
	backoff := crawl.DefaultBackoff()
	return &Config{
		Crawl: CrawlConfig{
			Concurrency:      crawl.DefaultConcurrency,
			MaxRequests:      crawl.DefaultMaxRequests,
			MaxRetries:       crawl.DefaultMaxRetries,
			RetryBase:        backoff.Base,
			RetryMax:         backoff.Max,
			PolitenessDelay:  crawl.DefaultPolitenessDelay,
			FetchTimeout:     2 * time.Minute,
			ProgressInterval: crawl.DefaultProgressInterval,
			UseSitemaps:      true,
		},
		Chunk: ChunkConfig{Size: split.Size, Overlap: split.Overlap},
		Embedding: EmbeddingConfig{
			Provider:   ProviderOpenAI,
			BatchSize:  embed.DefaultBatchSize,
			BatchPause: embed.DefaultBatchPause,
			MaxRetries: embed.DefaultMaxRetries,
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenAI,
			Temperature: 0.3,
			MaxRetries:  query.DefaultMaxRetries,
		},
		Store: StoreConfig{Driver: DriverSQLite, Path: defaultDataPath("lawdoc.db")},
		Query: QueryConfig{TopK: lawdoc.DefaultSearchLimit},
		HTML:  HTMLConfig{Extractor: ExtractorGoquery},
		Jobs:  JobsConfig{Dir: defaultDataPath("jobs")},
	}
}

// LoadConfig reads the YAML file at path over the defaults. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on the configuration.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("LAWDOC_DB"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("LAWDOC_POSTGRES_URL"); v != "" {
		c.Store.PostgresURL = v
		if c.Store.Driver == "" || c.Store.Driver == DriverSQLite {
			c.Store.Driver = DriverPostgres
		}
	}
}

// Validate reports configuration values no component can work with.
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return lawdoc.Errorf(lawdoc.EINVALID, "unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return lawdoc.Errorf(lawdoc.EINVALID, "unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return lawdoc.Errorf(lawdoc.EINVALID, "store.path required for sqlite")
		}
	case DriverPostgres:
		if c.Store.PostgresURL == "" {
			return lawdoc.Errorf(lawdoc.EINVALID, "store.postgres_url required for postgres")
		}
	default:
		return lawdoc.Errorf(lawdoc.EINVALID, "unknown store driver %q", c.Store.Driver)
	}
	switch c.HTML.Extractor {
	case ExtractorGoquery, ExtractorTrafilatura, ExtractorReadability:
	default:
		return lawdoc.Errorf(lawdoc.EINVALID, "unknown html extractor %q", c.HTML.Extractor)
	}
	if c.Chunk.Overlap >= c.Chunk.Size {
		return lawdoc.Errorf(lawdoc.EINVALID, "chunk.overlap must be smaller than chunk.size")
	}
	return nil
}

// defaultDataPath places name under ~/.lawdoc, or the working directory
// when the home directory is unknown.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".lawdoc", name)
}
