package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/chunkcrawl/chunkcrawl/internal/chunk"
)

// Default configuration values.
const (
	// DefaultMaxTokensPerChunk keeps one chunk comfortably inside the
	// context window of current large-context models while leaving room
	// for the caller's own prompt.
	DefaultMaxTokensPerChunk = 100000

	// DefaultMaxPages caps URLs per crawl. Prevents runaway crawling on
	// large or infinitely-generating sites; override with --max-pages.
	DefaultMaxPages = 100

	// DefaultSearchLimit caps results per search call.
	DefaultSearchLimit = 10

	// DefaultCrawlDelay is the politeness interval between fetches.
	// One second is conservative and respectful of origin servers.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the tool in HTTP requests.
	DefaultUserAgent = "chunkcrawl/1.0 (+https://github.com/chunkcrawl/chunkcrawl)"

	// DefaultMaxBodySize caps response bodies at 5MB. Enough for any
	// page worth chunking, small enough to bound memory.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultConcurrency is the number of crawl sessions run in
	// parallel when multiple roots are given. Each session is still
	// strictly sequential internally.
	DefaultConcurrency = 4

	// AppName is used for XDG directory paths.
	AppName = "chunkcrawl"
)

// Config holds all options for one invocation.
//
// Design decision: We use a single flat struct instead of nested
// sub-configs. The option count is manageable, and the flat shape maps
// one-to-one onto CLI flags.
type Config struct {
	// MaxTokensPerChunk is the hard token ceiling per chunk.
	MaxTokensPerChunk int

	// SafetyFactor scales the budget when truncating an oversized
	// single page. Must be in (0, 1].
	SafetyFactor float64

	// MaxPages caps how many URLs a crawl maps and fetches.
	MaxPages int

	// SearchLimit caps how many results a search retrieves.
	SearchLimit int

	// CrawlDelay is the politeness interval between fetches.
	CrawlDelay time.Duration

	// Timeout is the per-request timeout, enforced by the HTTP client.
	Timeout time.Duration

	// UserAgent is sent with every HTTP request.
	UserAgent string

	// MaxBodySize caps response body reads in bytes.
	MaxBodySize int64

	// RawHTML delivers raw markup instead of extracted text.
	RawHTML bool

	// SearchEndpoint is the SearXNG-compatible search API URL.
	// Required for the search command only.
	SearchEndpoint string

	// Cursor resumes from an earlier chunk's continuation cursor.
	Cursor string

	// Concurrency is the number of parallel crawl sessions when
	// multiple roots are given.
	Concurrency int

	// JSONReport selects JSON output. Mutually exclusive with
	// MarkdownReport; the default is a human-readable summary.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout,
	// creating directories as needed.
	ReportFile string

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// ConfigFilePath is an explicit path to the .chunkcrawl file.
	// Empty means search the current then home directory.
	ConfigFilePath string

	// Sites holds per-site overrides loaded from the config file.
	Sites *File

	// Targets are the crawl roots or batch URLs; Query is the search
	// query. Exactly one of the two is used per invocation.
	Targets []string
	Query   string
}

// NewConfig creates a Config with defaults.
// Many defaults are non-zero, so relying on zero values would be wrong;
// the constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxTokensPerChunk: DefaultMaxTokensPerChunk,
		SafetyFactor:      chunk.DefaultSafetyFactor,
		MaxPages:          DefaultMaxPages,
		SearchLimit:       DefaultSearchLimit,
		CrawlDelay:        DefaultCrawlDelay,
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		Concurrency:       DefaultConcurrency,
	}
}

// Budget returns the chunk.TokenBudget this config describes.
func (c *Config) Budget() chunk.TokenBudget {
	return chunk.TokenBudget{
		MaxTokensPerChunk: c.MaxTokensPerChunk,
		SafetyFactor:      c.SafetyFactor,
	}
}

// XDGConfigDir returns the XDG config directory for chunkcrawl.
// On Linux: ~/.config/chunkcrawl.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration, returning the first problem found.
// Called once after CLI parsing, before any session starts.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 && c.Query == "" {
		return ErrNoTarget
	}
	if err := c.Budget().Validate(); err != nil {
		return err
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.SearchLimit <= 0 {
		return ErrInvalidSearchLimit
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
