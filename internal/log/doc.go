// Package log provides structured logging for faqtree built on log/slog.
//
// Crawl logging routinely carries page-sized strings (markup snippets,
// extracted answers). The TruncatingHandler caps oversized string
// attributes before they reach the underlying handler so that one noisy
// page cannot flood the log output.
package log
