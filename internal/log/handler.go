package log

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxAttrLength is the longest string attribute value the
// TruncatingHandler passes through unchanged.
const DefaultMaxAttrLength = 256

// truncationMarker is appended to any attribute value that was cut.
const truncationMarker = "...(truncated)"

// TruncatingHandler is a slog.Handler wrapper that caps oversized string
// attribute values before delegating to the underlying handler. Group
// structure and non-string attributes pass through untouched.
type TruncatingHandler struct {
	inner slog.Handler
	max   int
}

// NewTruncatingHandler wraps inner with a cap of maxLen runes per string
// attribute value. A maxLen of zero or less falls back to
// DefaultMaxAttrLength.
func NewTruncatingHandler(inner slog.Handler, maxLen int) *TruncatingHandler {
	if maxLen <= 0 {
		maxLen = DefaultMaxAttrLength
	}
	return &TruncatingHandler{inner: inner, max: maxLen}
}

// Enabled reports whether the underlying handler handles records at the
// given level.
func (h *TruncatingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle truncates oversized string attributes on the record and passes
// it to the underlying handler.
func (h *TruncatingHandler) Handle(ctx context.Context, record slog.Record) error {
	capped := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		capped.AddAttrs(h.truncateAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, capped)
}

// WithAttrs returns a new TruncatingHandler whose underlying handler has
// the given (truncated) attributes.
func (h *TruncatingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	truncated := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		truncated = append(truncated, h.truncateAttr(attr))
	}
	return &TruncatingHandler{inner: h.inner.WithAttrs(truncated), max: h.max}
}

// WithGroup returns a new TruncatingHandler with the given group name.
func (h *TruncatingHandler) WithGroup(name string) slog.Handler {
	return &TruncatingHandler{inner: h.inner.WithGroup(name), max: h.max}
}

// truncateAttr caps string values and recurses into groups.
func (h *TruncatingHandler) truncateAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, h.truncate(attr.Value.String()))
	case slog.KindGroup:
		members := attr.Value.Group()
		truncated := make([]any, 0, len(members))
		for _, member := range members {
			truncated = append(truncated, h.truncateAttr(member))
		}
		return slog.Group(attr.Key, truncated...)
	default:
		return attr
	}
}

// truncate cuts s to the handler's rune cap and appends the marker.
func (h *TruncatingHandler) truncate(s string) string {
	if utf8.RuneCountInString(s) <= h.max {
		return s
	}
	runes := []rune(s)
	return string(runes[:h.max]) + truncationMarker
}

// NewLogger returns a text logger writing to w. When verbose is true the
// level drops from Warn to Debug so per-page crawl events become visible.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTruncatingHandler(inner, DefaultMaxAttrLength))
}

// NewJSONLogger returns a JSON logger writing to w with the same level
// policy as NewLogger.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	inner := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTruncatingHandler(inner, DefaultMaxAttrLength))
}
