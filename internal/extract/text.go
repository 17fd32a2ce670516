package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// minQuestionLength is the minimum rune count for a heading to qualify as
// a question. Combined with the trailing "?" this is the sole signal that
// separates FAQ headings from unrelated ones; shorter strings ("is it?")
// are too ambiguous to trust.
const minQuestionLength = 8

// stableIDLength is the hex length of the content-derived fingerprint.
// 16 hex characters (64 bits) make collisions vanishingly unlikely at the
// scale of a single site's FAQ corpus.
const stableIDLength = 16

// slugRegex matches character runs that collapse to a single underscore
// during slugification.
var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Clean normalizes extracted text: whitespace runs collapse to single
// spaces, the result is trimmed, and ALL trailing periods are stripped.
// A terminal "?" survives, which is what lets question detection work on
// cleaned text.
func Clean(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	return strings.TrimRight(collapsed, ".")
}

// LooksLikeQuestion reports whether cleaned text qualifies as an FAQ
// question: it must end with "?" and be at least minQuestionLength runes.
func LooksLikeQuestion(text string) bool {
	return strings.HasSuffix(text, "?") && utf8.RuneCountInString(text) >= minQuestionLength
}

// Slugify converts text to an intent slug: lowercased, with every run of
// non-alphanumeric characters collapsed to a single underscore and
// leading/trailing underscores trimmed.
func Slugify(text string) string {
	slug := slugRegex.ReplaceAllString(strings.ToLower(text), "_")
	return strings.Trim(slug, "_")
}

// StableID computes the content-derived fingerprint of a question/answer
// pair: the first stableIDLength hex characters of the SHA-256 of
// "question::answer", both lowercased.
//
// The ID is a pure function of the content, so byte-identical Q/A text
// yields the same ID on every run. This keeps re-crawls idempotent.
func StableID(question, answer string) string {
	raw := strings.ToLower(question) + "::" + strings.ToLower(answer)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:stableIDLength]
}

// MatchesCategory reports whether text passes the category filter.
// An empty keyword list accepts everything; otherwise at least one keyword
// must appear in the text as a case-insensitive substring.
func MatchesCategory(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// Timestamp formats t as ISO-8601 UTC with a trailing "Z".
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
