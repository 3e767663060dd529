package log

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxValueLen is the clip threshold for string attribute values.
// Long enough to keep URLs and error chains intact, short enough that a
// logged page body cannot flood the output.
const DefaultMaxValueLen = 512

// clipSuffix marks a clipped value, including how much was dropped.
const clipSuffix = "...(%d more bytes)"

// ClipHandler wraps an slog.Handler and clips oversized string values.
//
// Design decision: We use a handler wrapper rather than clipping at
// call sites because:
//  1. It integrates with standard slog APIs and any underlying handler
//  2. Call sites stay clean; nobody forgets to truncate
//  3. The threshold is configured once, next to logger setup
type ClipHandler struct {
	// handler receives the clipped records.
	handler slog.Handler

	// maxValueLen is the per-value byte threshold.
	maxValueLen int
}

// ClipOption configures a ClipHandler.
type ClipOption func(*ClipHandler)

// WithMaxValueLen sets the clip threshold in bytes.
func WithMaxValueLen(n int) ClipOption {
	return func(h *ClipHandler) {
		if n > 0 {
			h.maxValueLen = n
		}
	}
}

// NewClipHandler creates a ClipHandler wrapping the given handler.
// A nil handler falls back to slog.Default()'s handler.
func NewClipHandler(handler slog.Handler, opts ...ClipOption) *ClipHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &ClipHandler{
		handler:     handler,
		maxValueLen: DefaultMaxValueLen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled implements slog.Handler by delegating to the wrapped handler.
func (h *ClipHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler. It rebuilds the record with clipped
// attribute values and passes it on.
func (h *ClipHandler) Handle(ctx context.Context, record slog.Record) error {
	clipped := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clipped.AddAttrs(h.clipAttr(attr))
		return true
	})
	return h.handler.Handle(ctx, clipped)
}

// WithAttrs implements slog.Handler, clipping the pre-bound attributes.
func (h *ClipHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clipped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		clipped[i] = h.clipAttr(attr)
	}
	return &ClipHandler{
		handler:     h.handler.WithAttrs(clipped),
		maxValueLen: h.maxValueLen,
	}
}

// WithGroup implements slog.Handler.
func (h *ClipHandler) WithGroup(name string) slog.Handler {
	return &ClipHandler{
		handler:     h.handler.WithGroup(name),
		maxValueLen: h.maxValueLen,
	}
}

// clipAttr clips string values, recursing into groups.
func (h *ClipHandler) clipAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		attr.Value = slog.StringValue(h.clip(attr.Value.String()))
	case slog.KindGroup:
		members := attr.Value.Group()
		clipped := make([]slog.Attr, len(members))
		for i, member := range members {
			clipped[i] = h.clipAttr(member)
		}
		attr.Value = slog.GroupValue(clipped...)
	}
	return attr
}

// clip shortens s to the threshold at a rune boundary.
func (h *ClipHandler) clip(s string) string {
	if len(s) <= h.maxValueLen {
		return s
	}
	n := h.maxValueLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + fmt.Sprintf(clipSuffix, len(s)-n)
}
