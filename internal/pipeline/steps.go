package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/convexo/faqtree/internal/config"
	"github.com/convexo/faqtree/internal/crawler"
	"github.com/convexo/faqtree/internal/database"
	"github.com/convexo/faqtree/internal/model"
	"github.com/convexo/faqtree/internal/tree"
)

// ErrNoDocument is returned by PersistStep when no tree was assembled.
var ErrNoDocument = errors.New("no document to persist")

// CrawlStep fetches the site and extracts FAQ and navigation records.
//
// Design decision: Crawling is a separate step because:
// 1. It has its own configuration (depth, body limits, categories)
// 2. It produces the raw records all later steps depend on
// 3. It can be replaced with a fixture loader in tests
type CrawlStep struct {
	// client is the HTTP client used for all fetches.
	client *http.Client

	// maxDepth limits crawl recursion.
	maxDepth int

	// userAgent is the User-Agent header to send with requests.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// categories filters FAQ records by category keyword.
	categories []string

	// logger for structured logging.
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlMaxDepth sets the maximum crawl depth.
func WithCrawlMaxDepth(depth int) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxDepth = depth
	}
}

// WithCrawlUserAgent sets the User-Agent header for HTTP requests.
func WithCrawlUserAgent(userAgent string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.userAgent = userAgent
	}
}

// WithCrawlMaxBodySize sets the maximum response body size in bytes.
func WithCrawlMaxBodySize(maxBodySize int64) CrawlStepOption {
	return func(s *CrawlStep) {
		s.maxBodySize = maxBodySize
	}
}

// WithCrawlCategories sets the FAQ category keyword filter.
func WithCrawlCategories(categories []string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.categories = categories
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a new crawling step fetching through client.
func NewCrawlStep(client *http.Client, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		client:      client,
		maxDepth:    config.DefaultMaxDepth,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step and stores the result on the build.
func (s *CrawlStep) Do(ctx context.Context, build *Build) error {
	spiderOpts := []crawler.SpiderOption{
		crawler.WithMaxDepth(s.maxDepth),
		crawler.WithUserAgent(s.userAgent),
		crawler.WithMaxBodySize(s.maxBodySize),
		crawler.WithLogger(s.logger),
	}
	if len(s.categories) > 0 {
		spiderOpts = append(spiderOpts, crawler.WithCategories(s.categories))
	}

	spider := crawler.NewSpider(s.client, spiderOpts...)

	result, err := spider.Crawl(ctx, build.StartURL)
	if err != nil {
		return err
	}

	build.Crawl = result
	s.logger.Info("crawl completed",
		"site", build.StartURL,
		"pages_fetched", result.PagesFetched,
		"faq_records", result.FAQs.Len(),
		"nav_records", result.Navigation.Len(),
	)

	return nil
}

// AssembleStep turns collected records into a dialogue tree document.
type AssembleStep struct {
	// assembler builds the tree.
	assembler *tree.Assembler

	// logger for structured logging.
	logger *slog.Logger
}

// AssembleStepOption configures an AssembleStep.
type AssembleStepOption func(*AssembleStep)

// WithAssembler replaces the default assembler, mainly so tests can pin
// the clock.
func WithAssembler(a *tree.Assembler) AssembleStepOption {
	return func(s *AssembleStep) {
		s.assembler = a
	}
}

// WithAssembleLogger sets a custom logger for the assemble step.
func WithAssembleLogger(logger *slog.Logger) AssembleStepOption {
	return func(s *AssembleStep) {
		s.logger = logger
	}
}

// NewAssembleStep creates a new assembly step.
func NewAssembleStep(opts ...AssembleStepOption) *AssembleStep {
	s := &AssembleStep{
		assembler: tree.NewAssembler(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do executes the assembly step. A missing crawl result assembles an
// empty tree so the run still produces a valid document.
func (s *AssembleStep) Do(_ context.Context, build *Build) error {
	faqs := model.NewRecordSet[model.FAQRecord]()
	nav := model.NewRecordSet[model.NavigationRecord]()
	if build.Crawl != nil {
		faqs = build.Crawl.FAQs
		nav = build.Crawl.Navigation
	}

	build.Document = s.assembler.Assemble(faqs, nav)
	s.logger.Info("tree assembled",
		"site", build.StartURL,
		"total_nodes", build.Document.Metadata.TotalNodes,
		"faq_nodes", build.Document.Metadata.FAQNodes,
	)

	return nil
}

// PersistStep writes the assembled document to the local store: the
// latest copy into the value store and an append into the dataset.
type PersistStep struct {
	// store is the SQLite-backed destination.
	store *database.Store

	// logger for structured logging.
	logger *slog.Logger
}

// PersistStepOption configures a PersistStep.
type PersistStepOption func(*PersistStep)

// WithPersistLogger sets a custom logger for the persist step.
func WithPersistLogger(logger *slog.Logger) PersistStepOption {
	return func(s *PersistStep) {
		s.logger = logger
	}
}

// NewPersistStep creates a persistence step writing to store.
func NewPersistStep(store *database.Store, opts ...PersistStepOption) *PersistStep {
	s := &PersistStep{
		store:  store,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persistence step.
func (s *PersistStep) Do(ctx context.Context, build *Build) error {
	if build.Document == nil {
		return ErrNoDocument
	}

	if err := s.store.SetValue(ctx, database.OutputKey, build.StartURL, build.Document); err != nil {
		return err
	}
	if err := s.store.PushData(ctx, build.StartURL, build.Document); err != nil {
		return err
	}

	s.logger.Info("document persisted",
		"site", build.StartURL,
		"db", s.store.Path(),
	)

	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// MaxDepth is the maximum crawl depth.
	MaxDepth int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Categories filters FAQ records by category keyword.
	Categories []string

	// Store is the optional persistence destination. When nil the
	// persist step is omitted.
	Store *database.Store

	// Logger is passed to every step.
	Logger *slog.Logger
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineMaxDepth sets the crawl depth for the pipeline.
func WithPipelineMaxDepth(depth int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxDepth = depth
	}
}

// WithPipelineUserAgent sets the User-Agent header for HTTP requests.
func WithPipelineUserAgent(userAgent string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.UserAgent = userAgent
	}
}

// WithPipelineMaxBodySize sets the maximum response body size in bytes.
func WithPipelineMaxBodySize(maxBodySize int64) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxBodySize = maxBodySize
	}
}

// WithPipelineCategories sets the FAQ category keyword filter.
func WithPipelineCategories(categories []string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Categories = categories
	}
}

// WithPipelineStore sets the persistence destination.
func WithPipelineStore(store *database.Store) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Store = store
	}
}

// WithPipelineLogger sets the logger passed to every step.
func WithPipelineLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Logger = logger
	}
}

// DefaultPipeline creates a pipeline with the standard steps configured:
// crawl, assemble, and (when a store is set) persist.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineMaxDepth, etc).
func DefaultPipeline(client *http.Client, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	cfg := &DefaultPipelineConfig{
		MaxDepth:    config.DefaultMaxDepth,
		UserAgent:   config.DefaultUserAgent,
		MaxBodySize: config.DefaultMaxBodySize,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := New(pipelineOpts...)

	crawlOpts := []CrawlStepOption{
		WithCrawlMaxDepth(cfg.MaxDepth),
		WithCrawlUserAgent(cfg.UserAgent),
		WithCrawlMaxBodySize(cfg.MaxBodySize),
		WithCrawlLogger(cfg.Logger),
	}
	if len(cfg.Categories) > 0 {
		crawlOpts = append(crawlOpts, WithCrawlCategories(cfg.Categories))
	}

	p.AddSteps(
		NewCrawlStep(client, crawlOpts...),
		NewAssembleStep(WithAssembleLogger(cfg.Logger)),
	)

	if cfg.Store != nil {
		p.AddStep(NewPersistStep(cfg.Store, WithPersistLogger(cfg.Logger)))
	}

	return p
}
