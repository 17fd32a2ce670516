package extract

import (
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/convexo/faqtree/internal/model"
)

// questionSelector matches elements that may carry an FAQ question.
// Heading levels h2/h3 cover most FAQ layouts; dt covers definition-list
// style pages.
const questionSelector = "h2, h3, dt"

// answerStopAtoms terminate the sibling walk that collects an answer.
// The appearance of another question-capable element means the current
// answer is complete. Keyed on the parser's atoms rather than tag-name
// strings so malformed capitalization in the source cannot slip through.
var answerStopAtoms = map[atom.Atom]bool{
	atom.H2: true,
	atom.H3: true,
	atom.Dt: true,
}

// FAQConfidence is the fixed confidence attached to extracted FAQ records.
const FAQConfidence = 0.9

// FAQDerivedFrom tags the structural signal behind FAQ records.
const FAQDerivedFrom = "faq-structure"

// FAQExtractor extracts question/answer pairs from one page's markup.
//
// Design decision: We use goquery rather than walking x/net/html nodes by
// hand because:
//  1. The heuristic is defined in selector terms ("h2, h3, dt")
//  2. Selection.Next() gives exactly the element-sibling walk we need
//  3. Text() handles nested inline markup for free
type FAQExtractor struct {
	// categories filters questions by keyword; empty accepts all.
	categories []string

	// now supplies timestamps; replaceable in tests.
	now func() time.Time
}

// FAQOption configures a FAQExtractor.
type FAQOption func(*FAQExtractor)

// WithCategories sets the category keyword filter. A question is kept only
// if at least one keyword appears in its text (case-insensitive).
func WithCategories(keywords []string) FAQOption {
	return func(e *FAQExtractor) {
		e.categories = keywords
	}
}

// WithClock sets the timestamp source. Used by tests to pin checkedAt.
func WithClock(now func() time.Time) FAQOption {
	return func(e *FAQExtractor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewFAQExtractor creates a FAQExtractor with the given options.
func NewFAQExtractor(opts ...FAQOption) *FAQExtractor {
	e := &FAQExtractor{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract parses markup and returns the FAQ records found on the page,
// keyed by intent slug in discovery order. The caller merges results
// across pages; two questions slugifying identically collapse to one
// record with the later page winning.
//
// The answer is collected by walking immediate following sibling elements
// until another question-capable element appears or siblings run out.
// Candidates with an empty answer, or filtered out by the category
// keywords, produce no record.
func (e *FAQExtractor) Extract(markup io.Reader, pageURL string) (*model.RecordSet[model.FAQRecord], error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, err
	}

	faqs := model.NewRecordSet[model.FAQRecord]()

	doc.Find(questionSelector).Each(func(_ int, heading *goquery.Selection) {
		question := Clean(heading.Text())
		if !LooksLikeQuestion(question) {
			return
		}

		answer := collectAnswer(heading)
		if answer == "" || !MatchesCategory(question, e.categories) {
			return
		}

		checkedAt := Timestamp(e.now())
		intent := Slugify(question)

		faqs.Put(intent, model.FAQRecord{
			ID:       StableID(question, answer),
			Type:     model.TypeFAQ,
			Question: question,
			Answer:   answer + ".",
			Intent:   intent,
			Confidence: model.Confidence{
				Score:       FAQConfidence,
				DerivedFrom: FAQDerivedFrom,
			},
			Source: model.Source{
				URL:       pageURL,
				CheckedAt: checkedAt,
			},
			LastUpdated: checkedAt,
			Version:     model.RecordVersion,
			UI:          model.DefaultUIHints(),
		})
	})

	return faqs, nil
}

// collectAnswer walks forward through the heading's sibling elements,
// gathering cleaned text until a stop tag or the end of siblings, and
// joins the fragments with single spaces.
func collectAnswer(heading *goquery.Selection) string {
	parts := make([]string, 0)

	for sibling := heading.Next(); sibling.Length() > 0; sibling = sibling.Next() {
		if isAnswerStop(sibling) {
			break
		}
		if text := Clean(sibling.Text()); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}

// isAnswerStop reports whether the selection is a question-capable element
// that ends the current answer.
func isAnswerStop(sel *goquery.Selection) bool {
	for _, node := range sel.Nodes {
		if node.Type == html.ElementNode && answerStopAtoms[node.DataAtom] {
			return true
		}
	}
	return false
}
