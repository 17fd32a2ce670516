package urlutil

import (
	"net/url"
	"strings"
)

// BlockedPathKeywords are path substrings that mark a URL as off-limits.
// These cover sensitive routes (authentication, account, and purchase
// flows) that never contain FAQ or navigation content worth extracting.
//
// Matching is a plain substring test on the URL path, so "/administration"
// is blocked by "/admin". This over-blocking is intentional: the cost of
// skipping a legitimate page is far lower than crawling a sensitive route.
var BlockedPathKeywords = []string{
	"/login",
	"/admin",
	"/account",
	"/checkout",
	"/cart",
	"/auth",
	"/register",
}

// Resolve resolves href against base and returns the absolute URL.
// It returns nil for hrefs that can never produce a crawlable page
// (javascript:, mailto:, tel:, data: schemes). Empty and fragment-only
// hrefs resolve to the page itself; the classification layer decides
// what becomes of them.
//
// Design decision: We return *url.URL rather than a string because every
// caller immediately needs structured access (host, path, scheme) for
// classification. Callers that need the string form call String().
func Resolve(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)

	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return nil
	}

	u, err := url.Parse(href)
	if err != nil {
		return nil
	}

	return base.ResolveReference(u)
}

// IsSameDomain reports whether u belongs to the same site as base.
//
// Membership is a suffix match on the host, so subdomains of the base host
// count as same-domain ("docs.example.com" is part of "example.com").
func IsSameDomain(u, base *url.URL) bool {
	return strings.HasSuffix(u.Host, base.Host)
}

// IsBlocked reports whether the URL path contains any blocked keyword.
// The match is case-sensitive substring containment.
func IsBlocked(path string) bool {
	for _, keyword := range BlockedPathKeywords {
		if strings.Contains(path, keyword) {
			return true
		}
	}
	return false
}

// TopSegment returns the first non-empty path segment of the URL path.
// It returns "" for the bare domain root ("/" or empty path).
func TopSegment(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ""
	}
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
