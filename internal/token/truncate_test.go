package token

import (
	"strings"
	"testing"
)

// TestTruncate tests budget-targeted truncation.
func TestTruncate(t *testing.T) {
	t.Parallel()

	est := NewHeuristicEstimator()

	t.Run("returns text unchanged when it already fits", func(t *testing.T) {
		t.Parallel()

		text := "short text"
		got, n := Truncate(text, 1000, est)

		if got != text {
			t.Errorf("expected unchanged text, got %q", got)
		}
		if n != est.Estimate(text) {
			t.Errorf("expected estimate %d, got %d", est.Estimate(text), n)
		}
	})

	t.Run("truncated estimate fits the target", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 2000)
		target := 500

		if est.Estimate(text) <= target {
			t.Fatalf("test input must exceed the target")
		}

		got, n := Truncate(text, target, est)

		if n > target {
			t.Errorf("truncated estimate %d exceeds target %d", n, target)
		}
		if n != est.Estimate(got) {
			t.Errorf("returned count %d is not the estimate of the returned text %d", n, est.Estimate(got))
		}
		if len(got) >= len(text) {
			t.Errorf("expected text to shrink: %d -> %d bytes", len(text), len(got))
		}
	})

	t.Run("marks the cut", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("word ", 10000)
		got, _ := Truncate(text, 100, est)

		if !strings.HasSuffix(got, Marker) {
			t.Errorf("expected truncated text to end with the marker, got %q", got[max(0, len(got)-60):])
		}
	})

	t.Run("empty text is returned unchanged", func(t *testing.T) {
		t.Parallel()

		got, n := Truncate("", 100, est)

		if got != "" || n != 0 {
			t.Errorf("expected empty result, got %q (%d tokens)", got, n)
		}
	})

	t.Run("non-positive target is a no-op", func(t *testing.T) {
		t.Parallel()

		text := "anything at all"
		got, n := Truncate(text, 0, est)

		if got != text {
			t.Errorf("expected unchanged text, got %q", got)
		}
		if n != est.Estimate(text) {
			t.Errorf("expected estimate of the input, got %d", n)
		}
	})

	t.Run("never splits a multi-byte rune", func(t *testing.T) {
		t.Parallel()

		text := strings.Repeat("日本語のテキスト ", 5000)
		got, _ := Truncate(text, 200, est)

		if !strings.HasSuffix(got, Marker) {
			t.Fatalf("expected marker suffix")
		}
		body := strings.TrimSuffix(got, Marker)
		for _, r := range body {
			if r == '�' {
				t.Fatal("truncation produced an invalid UTF-8 boundary")
			}
		}
	})

	t.Run("symbol-dense text still converges", func(t *testing.T) {
		t.Parallel()

		// Word estimate for punctuation soup grows super-linearly versus
		// the ratio projection, forcing the shrink loop to run.
		text := strings.Repeat("{}();,.!?#$%&*+-=<>/\\|~^ ", 4000)
		target := 300

		got, n := Truncate(text, target, est)

		if n > target {
			t.Errorf("estimate %d exceeds target %d after truncation", n, target)
		}
		if n != est.Estimate(got) {
			t.Errorf("returned count is stale: %d vs %d", n, est.Estimate(got))
		}
	})
}
