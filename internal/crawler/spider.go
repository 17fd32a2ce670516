package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/convexo/faqtree/internal/extract"
	"github.com/convexo/faqtree/internal/model"
)

// Default crawl settings. The HTTP timeout lives on the injected client,
// so it is configured by the caller rather than here.
const (
	// defaultMaxDepth keeps the crawl on the seed page and its immediate
	// neighborhood. Depth counts from 0 at the start URL.
	defaultMaxDepth = 1

	// defaultUserAgent identifies the product in HTTP requests.
	defaultUserAgent = "CONVEXO/Enterprise"

	// defaultMaxBodySize caps response bodies at 5MB. FAQ pages are small;
	// anything larger is truncated rather than exhausting memory.
	defaultMaxBodySize = 5 * 1024 * 1024
)

// Spider crawls a website breadth-first and accumulates extraction results.
//
// Design decision: We require an external *http.Client because:
//  1. The request timeout and redirect policy belong to the caller
//  2. Tests inject httptest-backed clients
//  3. Consistent with how the rest of the application builds transports
//
// The frontier is seeded with the start URL only and is never expanded
// with links discovered during extraction, so the depth bound is currently
// exercised by the seed entry alone. This mirrors the shipped behavior of
// the hosted product.
type Spider struct {
	// client performs HTTP fetches; must follow redirects and carry the
	// per-request timeout.
	client *http.Client

	// maxDepth is the maximum frontier depth to fetch. Entries deeper than
	// this are discarded without fetching.
	maxDepth int

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize limits how much of each response body is read.
	maxBodySize int64

	// faqs extracts question/answer records from fetched markup.
	faqs *extract.FAQExtractor

	// nav derives navigation records from fetched markup.
	nav *extract.NavExtractor

	// logger records per-URL progress and swallowed fetch failures.
	logger *slog.Logger

	// visited tracks exact URL strings already popped for fetching.
	visited map[string]bool
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 means only the starting page.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size to read.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithCategories sets the FAQ category keyword filter passed through to
// the FAQ extractor.
func WithCategories(keywords []string) SpiderOption {
	return func(s *Spider) {
		s.faqs = extract.NewFAQExtractor(extract.WithCategories(keywords))
	}
}

// WithLogger sets the structured logger used during crawling.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpider creates a Spider fetching through the given HTTP client.
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      client,
		maxDepth:    defaultMaxDepth,
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
		faqs:        extract.NewFAQExtractor(),
		nav:         extract.NewNavExtractor(),
		logger:      slog.Default(),
		visited:     make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// frontierItem is one queued (URL, depth) pair.
type frontierItem struct {
	url   string
	depth int
}

// Result accumulates everything a crawl extracted.
type Result struct {
	// FAQs maps intent slug to FAQ record in discovery order.
	FAQs *model.RecordSet[model.FAQRecord]

	// Navigation maps navigation ID to record in discovery order.
	Navigation *model.RecordSet[model.NavigationRecord]

	// PagesFetched counts pages fetched successfully.
	PagesFetched int
}

// Crawl drives the frontier starting from startURL and returns the
// accumulated extraction results.
//
// Frontier entries are processed in pure FIFO order. A popped entry is
// discarded without fetching when its URL was already visited or its depth
// exceeds the maximum. Fetch failures (transport errors and error
// statuses) skip the URL silently; the error is logged at debug level and
// never surfaces to the caller. On success both extractors run and their
// outputs merge into the running sets, later pages winning on collision.
func (s *Spider) Crawl(ctx context.Context, startURL string) (*Result, error) {
	result := &Result{
		FAQs:       model.NewRecordSet[model.FAQRecord](),
		Navigation: model.NewRecordSet[model.NavigationRecord](),
	}

	frontier := []frontierItem{{url: startURL, depth: 0}}

	for len(frontier) > 0 {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		item := frontier[0]
		frontier = frontier[1:]

		if s.visited[item.url] || item.depth > s.maxDepth {
			continue
		}
		s.visited[item.url] = true

		body, err := s.fetch(ctx, item.url)
		if err != nil {
			s.logger.Debug("skipping page after fetch failure",
				"url", item.url,
				"error", err,
			)
			continue
		}

		result.PagesFetched++
		s.logger.Debug("fetched page",
			"url", item.url,
			"depth", item.depth,
			"bytes", len(body),
		)

		faqs, err := s.faqs.Extract(bytes.NewReader(body), item.url)
		if err != nil {
			s.logger.Debug("faq extraction failed", "url", item.url, "error", err)
		} else {
			result.FAQs.Merge(faqs)
		}

		nav, err := s.nav.Extract(bytes.NewReader(body), item.url)
		if err != nil {
			s.logger.Debug("navigation extraction failed", "url", item.url, "error", err)
		} else {
			result.Navigation.Merge(nav)
		}
	}

	return result, nil
}

// fetch performs a single HTTP GET and returns the size-capped body.
// Any transport error or status of 400 and above is a fetch failure.
func (s *Spider) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, err
	}

	return body, nil
}

// Visited reports how many distinct URLs have been popped for fetching.
func (s *Spider) Visited() int {
	return len(s.visited)
}

// Reset clears the visited set, allowing the Spider to be reused.
func (s *Spider) Reset() {
	s.visited = make(map[string]bool)
}
