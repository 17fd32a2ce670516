package model

// Record type discriminators used in the exported document.
const (
	// TypeFAQ marks a record extracted from question/answer markup.
	TypeFAQ = "faq"

	// TypeNavigation marks a record derived from site link structure.
	TypeNavigation = "navigation"

	// TypeSystem marks synthetic nodes such as the conversation entry point.
	TypeSystem = "system"
)

// RecordVersion is the schema version stamped on every FAQ record.
const RecordVersion = "1.0"

// Confidence is a fixed heuristic score attached to extracted records.
// The score is not statistically computed; it reflects how trustworthy the
// structural signal that produced the record is considered to be.
type Confidence struct {
	// Score is the heuristic confidence in [0, 1].
	Score float64 `json:"score"`

	// DerivedFrom names the structural signal that produced the record,
	// e.g. "faq-structure" or "site-structure".
	DerivedFrom string `json:"derivedFrom"`
}

// Source records where and when a FAQ record was extracted.
type Source struct {
	// URL is the page the record was extracted from.
	URL string `json:"url"`

	// CheckedAt is the extraction timestamp in ISO-8601 UTC.
	CheckedAt string `json:"checkedAt"`
}

// UIHints carries presentation hints for chatbot front-ends.
type UIHints struct {
	// Presentation selects the rendering style (e.g. "card").
	Presentation string `json:"presentation"`

	// Priority orders records within the presentation ("medium" default).
	Priority string `json:"priority"`
}

// DefaultUIHints returns the fixed presentation hints attached to every
// generated record and node.
func DefaultUIHints() UIHints {
	return UIHints{
		Presentation: "card",
		Priority:     "medium",
	}
}

// FAQRecord is one extracted question/answer pair.
//
// Identity is the content-derived fingerprint in ID: the same question and
// answer text always produce the same ID across runs, which keeps re-crawls
// idempotent. The Intent slug is the merge key; a later page that produces
// the same slug overwrites an earlier record (last-write-wins).
type FAQRecord struct {
	// ID is a fixed-length hash of the lowercased "question::answer" pair.
	ID string `json:"id"`

	// Type is always TypeFAQ.
	Type string `json:"type"`

	// Question is the cleaned heading text (trailing periods stripped,
	// the terminal "?" preserved).
	Question string `json:"question"`

	// Answer is the concatenated sibling text with a trailing period.
	Answer string `json:"answer"`

	// Intent is the slugified question used as the merge key.
	Intent string `json:"intent"`

	// Confidence is the fixed extraction confidence (0.9, "faq-structure").
	Confidence Confidence `json:"confidence"`

	// Source records the page URL and extraction time.
	Source Source `json:"source"`

	// LastUpdated equals Source.CheckedAt; kept as a separate field because
	// the contract models validation time independently of extraction time.
	LastUpdated string `json:"lastUpdated"`

	// Version is the record schema version.
	Version string `json:"version"`

	// UI carries presentation hints.
	UI UIHints `json:"ui"`
}

// NavigationRecord is one navigation intent derived from a distinct
// top-level path segment reachable via in-domain links.
//
// Identity is "nav_<segment>". Derivation is a pure function of the
// segment, so repeat occurrences overwrite with an identical record.
type NavigationRecord struct {
	// ID is "nav_" followed by the top-level path segment.
	ID string `json:"id"`

	// Type is always TypeNavigation.
	Type string `json:"type"`

	// Intent is the synthesized intent name "visit_<segment>".
	Intent string `json:"intent"`

	// Keywords are templated trigger phrases built from the segment.
	Keywords []string `json:"keywords"`

	// Label is the human-readable segment (hyphens to spaces, title case).
	Label string `json:"label"`

	// URL is the canonical target: scheme, host, and top segment only.
	URL string `json:"url"`

	// Locale is inferred from the segment via a fixed lookup table,
	// defaulting to "en-US".
	Locale string `json:"locale"`

	// Confidence is the fixed derivation confidence (0.8, "site-structure").
	Confidence Confidence `json:"confidence"`
}
