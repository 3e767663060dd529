package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// newTestLogger returns a logger writing through a ClipHandler into buf.
func newTestLogger(buf *bytes.Buffer, opts ...ClipOption) *slog.Logger {
	inner := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewClipHandler(inner, opts...))
}

// TestClipHandler tests attribute clipping behavior.
func TestClipHandler(t *testing.T) {
	t.Parallel()

	t.Run("short values pass through unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newTestLogger(&buf, WithMaxValueLen(32))

		logger.Info("fetched page", "url", "http://example.com/a")

		if !strings.Contains(buf.String(), "http://example.com/a") {
			t.Errorf("expected untouched value, got %q", buf.String())
		}
		if strings.Contains(buf.String(), "more bytes") {
			t.Errorf("unexpected clipping: %q", buf.String())
		}
	})

	t.Run("long values are clipped with a suffix", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newTestLogger(&buf, WithMaxValueLen(16))

		logger.Debug("page content", "content", strings.Repeat("x", 100))

		out := buf.String()
		if !strings.Contains(out, "(84 more bytes)") {
			t.Errorf("expected clip suffix with dropped count, got %q", out)
		}
		if strings.Contains(out, strings.Repeat("x", 17)) {
			t.Errorf("expected value clipped to 16 bytes, got %q", out)
		}
	})

	t.Run("clipping lands on a rune boundary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newTestLogger(&buf, WithMaxValueLen(4))

		// Each rune is 3 bytes, so a cut at byte 4 would split one.
		logger.Info("title", "title", "日本語テスト")

		out := buf.String()
		if strings.Contains(out, "�") {
			t.Errorf("expected no replacement characters, got %q", out)
		}
		if !strings.Contains(out, "日") {
			t.Errorf("expected first rune to survive, got %q", out)
		}
	})

	t.Run("non-string values are untouched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newTestLogger(&buf, WithMaxValueLen(2))

		logger.Info("counters", "tokens", 123456, "truncated", true)

		out := buf.String()
		if !strings.Contains(out, "tokens=123456") {
			t.Errorf("expected int attribute intact, got %q", out)
		}
	})

	t.Run("pre-bound attributes are clipped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newTestLogger(&buf, WithMaxValueLen(8))

		logger.With("session", strings.Repeat("s", 50)).Info("start")

		if !strings.Contains(buf.String(), "more bytes") {
			t.Errorf("expected WithAttrs value clipped, got %q", buf.String())
		}
	})

	t.Run("grouped attributes are clipped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newTestLogger(&buf, WithMaxValueLen(8))

		logger.Info("page",
			slog.Group("page",
				slog.String("content", strings.Repeat("y", 64)),
				slog.Int("tokens", 42),
			))

		out := buf.String()
		if !strings.Contains(out, "more bytes") {
			t.Errorf("expected group member clipped, got %q", out)
		}
		if !strings.Contains(out, "tokens=42") {
			t.Errorf("expected group int intact, got %q", out)
		}
	})
}
