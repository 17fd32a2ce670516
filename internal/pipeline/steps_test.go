package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/convexo/faqtree/internal/crawler"
	"github.com/convexo/faqtree/internal/database"
	"github.com/convexo/faqtree/internal/model"
	"github.com/convexo/faqtree/internal/tree"
)

// crawlResult wraps a FAQ set into a crawl result with no navigation.
func crawlResult(faqs *model.RecordSet[model.FAQRecord]) *crawler.Result {
	return &crawler.Result{
		FAQs:         faqs,
		Navigation:   model.NewRecordSet[model.NavigationRecord](),
		PagesFetched: 1,
	}
}

const faqPage = `<html><body>
<h2>How do I reset my password?</h2>
<p>Use the reset link on the sign-in page</p>
<a href="/pricing">Pricing</a>
</body></html>`

func TestCrawlStepCollectsRecords(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(faqPage))
	}))
	defer server.Close()

	step := NewCrawlStep(server.Client(), WithCrawlLogger(discardLogger()))
	build := NewBuild(server.URL)

	if err := step.Do(context.Background(), build); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if build.Crawl == nil {
		t.Fatal("build.Crawl is nil")
	}
	if build.Crawl.PagesFetched != 1 {
		t.Errorf("PagesFetched = %d, want 1", build.Crawl.PagesFetched)
	}
	if build.Crawl.FAQs.Len() != 1 {
		t.Errorf("FAQ records = %d, want 1", build.Crawl.FAQs.Len())
	}
	if build.Crawl.Navigation.Len() != 1 {
		t.Errorf("navigation records = %d, want 1", build.Crawl.Navigation.Len())
	}
}

func TestCrawlStepCategoriesFilter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(faqPage))
	}))
	defer server.Close()

	step := NewCrawlStep(server.Client(),
		WithCrawlLogger(discardLogger()),
		WithCrawlCategories([]string{"billing"}),
	)
	build := NewBuild(server.URL)

	if err := step.Do(context.Background(), build); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if build.Crawl.FAQs.Len() != 0 {
		t.Errorf("FAQ records = %d, want 0 after category filter", build.Crawl.FAQs.Len())
	}
}

func TestAssembleStepBuildsDocument(t *testing.T) {
	t.Parallel()

	faqs := model.NewRecordSet[model.FAQRecord]()
	faqs.Put("reset_password", model.FAQRecord{
		ID:       "abc123",
		Type:     model.TypeFAQ,
		Question: "How do I reset my password?",
		Answer:   "Use the reset link.",
		Intent:   "reset_password",
	})

	fixed := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	step := NewAssembleStep(
		WithAssembler(tree.NewAssembler(tree.WithClock(fixed))),
		WithAssembleLogger(discardLogger()),
	)

	build := NewBuild("https://example.com")
	build.Crawl = crawlResult(faqs)

	if err := step.Do(context.Background(), build); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if build.Document == nil {
		t.Fatal("build.Document is nil")
	}
	if build.Document.Metadata.FAQNodes != 1 {
		t.Errorf("FAQNodes = %d, want 1", build.Document.Metadata.FAQNodes)
	}
	if build.Document.GeneratedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("GeneratedAt = %q", build.Document.GeneratedAt)
	}
}

func TestAssembleStepWithoutCrawl(t *testing.T) {
	t.Parallel()

	step := NewAssembleStep(WithAssembleLogger(discardLogger()))
	build := NewBuild("https://example.com")

	if err := step.Do(context.Background(), build); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if build.Document == nil {
		t.Fatal("build.Document is nil")
	}
	if build.Document.Metadata.TotalNodes != 1 {
		t.Errorf("TotalNodes = %d, want lone start node", build.Document.Metadata.TotalNodes)
	}
}

func TestPersistStepWritesBothDestinations(t *testing.T) {
	t.Parallel()

	store, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	step := NewPersistStep(store, WithPersistLogger(discardLogger()))
	build := NewBuild("https://example.com")
	build.Document = tree.NewAssembler().Assemble(
		model.NewRecordSet[model.FAQRecord](),
		model.NewRecordSet[model.NavigationRecord](),
	)

	ctx := context.Background()
	if err := step.Do(ctx, build); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	if _, err := store.GetValue(ctx, database.OutputKey, build.StartURL); err != nil {
		t.Errorf("GetValue() error = %v, want stored document", err)
	}
	count, err := store.DatasetCount(ctx, build.StartURL)
	if err != nil {
		t.Fatalf("DatasetCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("dataset rows = %d, want 1", count)
	}
}

func TestPersistStepRequiresDocument(t *testing.T) {
	t.Parallel()

	store, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	step := NewPersistStep(store, WithPersistLogger(discardLogger()))
	build := NewBuild("https://example.com")

	if err := step.Do(context.Background(), build); !errors.Is(err, ErrNoDocument) {
		t.Errorf("Do() error = %v, want ErrNoDocument", err)
	}
}

func TestDefaultPipelineStepOrder(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline(http.DefaultClient,
		[]Option{WithLogger(discardLogger())},
		WithPipelineLogger(discardLogger()),
	)
	names := p.StepNames()
	if len(names) != 2 || names[0] != "crawl" || names[1] != "assemble" {
		t.Errorf("StepNames() = %v, want [crawl assemble]", names)
	}
}

func TestDefaultPipelineWithStore(t *testing.T) {
	t.Parallel()

	store, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	p := DefaultPipeline(http.DefaultClient,
		[]Option{WithLogger(discardLogger())},
		WithPipelineLogger(discardLogger()),
		WithPipelineStore(store),
	)
	names := p.StepNames()
	if len(names) != 3 || names[2] != "persist" {
		t.Errorf("StepNames() = %v, want persist as final step", names)
	}
}
