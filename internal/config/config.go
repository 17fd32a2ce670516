package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the hosted product's fixed settings where the contract pins
// them (timeout, user agent) and choose conservative values elsewhere.
const (
	// DefaultTimeout is the per-request HTTP timeout. FAQ pages are plain
	// HTML on the clear web; 30 seconds turns a hung fetch into a skipped
	// URL instead of a stuck crawl.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxDepth bounds the crawl frontier. Depth 0 is the start URL
	// itself; the product default of 1 keeps generation fast and cheap.
	DefaultMaxDepth = 1

	// DefaultUserAgent identifies generator traffic in server logs.
	// The value is part of the product contract and must not change.
	DefaultUserAgent = "CONVEXO/Enterprise"

	// DefaultMaxBodySize limits the response body size to read. 5MB is
	// generous for HTML pages while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultConcurrency is the number of concurrent tree generations when
	// multiple start URLs are given. Each individual crawl is sequential;
	// concurrency exists only across independent sites.
	DefaultConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "faqtree"
)

// Config holds all configuration options for faqtree.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
type Config struct {
	// StartURLs are the sites to generate trees for. At least one is
	// required; a missing start URL aborts the run before any crawling.
	StartURLs []string

	// MaxDepth is the maximum crawl depth. Frontier entries deeper than
	// this are discarded without fetching.
	MaxDepth int

	// Categories filters FAQ questions by keyword. Empty accepts all.
	Categories []string

	// Timeout is the HTTP timeout applied to each page fetch.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Concurrency is the number of sites processed in parallel when more
	// than one start URL is configured.
	Concurrency int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport forces compact JSON output. The default is pretty JSON;
	// mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport renders a Markdown summary instead of JSON.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the rendered document.
	// When empty the document is written to stdout.
	ReportFile string

	// DBDir is the directory of the SQLite persistence sink. Generated
	// documents are stored there under the fixed output key and appended
	// to the dataset. Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to persist generated documents.
	SaveToDB bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .faqtree in the current directory and then in the
	// user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor rather than relying on zero values
// because most defaults are non-zero, and the constructor doubles as
// documentation of what those defaults are.
func NewConfig() *Config {
	return &Config{
		MaxDepth:    DefaultMaxDepth,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Concurrency: DefaultConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for faqtree.
// On Linux: ~/.local/share/faqtree
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found; fixing one error often makes the
// rest irrelevant.
func (c *Config) Validate() error {
	if len(c.StartURLs) == 0 {
		return ErrNoStartURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
