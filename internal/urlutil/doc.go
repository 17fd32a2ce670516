// Package urlutil provides URL resolution and classification helpers used
// by the crawler and the navigation extractor.
//
// All functions are pure: they resolve hrefs against a base URL, decide
// same-domain membership, flag blocked paths, and extract the top-level
// path segment. Classification never returns an error; an href that cannot
// be resolved simply classifies as unusable.
package urlutil
