package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/convexo/faqtree/internal/model"
	"github.com/convexo/faqtree/internal/urlutil"
)

// NavConfidence is the fixed confidence attached to navigation records.
const NavConfidence = 0.8

// NavDerivedFrom tags the structural signal behind navigation records.
const NavDerivedFrom = "site-structure"

// DefaultLocale is assumed when the path segment carries no locale hint.
const DefaultLocale = "en-US"

// localeBySegment maps known locale-bearing path segments to BCP 47 tags.
// The table is intentionally small: it covers the country/language prefixes
// the product actually encounters, everything else falls back to en-US.
var localeBySegment = map[string]string{
	"fr":    "fr-FR",
	"de":    "de-DE",
	"de-de": "de-DE",
	"au":    "en-AU",
	"in":    "en-IN",
	"in-hi": "hi-IN",
}

// labelCaser title-cases navigation labels.
// strings.Title is deprecated; x/text/cases is the supported replacement.
var labelCaser = cases.Title(language.English)

// InferLocale returns the locale for a URL path, keyed on its lowercased
// first segment, defaulting to DefaultLocale.
func InferLocale(path string) string {
	key := strings.ToLower(urlutil.TopSegment(path))
	if locale, ok := localeBySegment[key]; ok {
		return locale
	}
	return DefaultLocale
}

// NavExtractor derives navigation intents from one page's links.
type NavExtractor struct{}

// NewNavExtractor creates a NavExtractor.
func NewNavExtractor() *NavExtractor {
	return &NavExtractor{}
}

// Extract parses markup and returns one navigation record per distinct
// top-level path segment found among the page's same-domain, non-blocked
// links, keyed by "nav_<segment>" in discovery order.
//
// Links resolving off-domain, to blocked paths, or to the bare domain root
// produce nothing. Repeat segments overwrite with an identical record, so
// the operation is idempotent across pages.
func (e *NavExtractor) Extract(markup io.Reader, pageURL string) (*model.RecordSet[model.NavigationRecord], error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, err
	}

	intents := model.NewRecordSet[model.NavigationRecord]()

	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		full := urlutil.Resolve(base, href)
		if full == nil {
			return
		}

		if !urlutil.IsSameDomain(full, base) || urlutil.IsBlocked(full.Path) {
			return
		}

		top := urlutil.TopSegment(full.Path)
		if top == "" {
			return
		}

		navID := "nav_" + top

		intents.Put(navID, model.NavigationRecord{
			ID:     navID,
			Type:   model.TypeNavigation,
			Intent: "visit_" + top,
			Keywords: []string{
				top,
				top + " page",
				"open " + top,
				"go to " + top,
			},
			Label:  labelCaser.String(strings.ReplaceAll(top, "-", " ")),
			URL:    full.Scheme + "://" + full.Host + "/" + top,
			Locale: InferLocale(full.Path),
			Confidence: model.Confidence{
				Score:       NavConfidence,
				DerivedFrom: NavDerivedFrom,
			},
		})
	})

	return intents, nil
}
