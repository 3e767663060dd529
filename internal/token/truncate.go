package token

import "unicode/utf8"

// Marker is appended to truncated content so downstream consumers can
// tell that the text was cut to fit a token budget.
const Marker = "\n\n[content truncated to fit token budget]"

// Truncate shrinks text so that its estimated token count fits within
// target, appending Marker at the cut point. It returns the truncated
// text and the estimator's value for the actual returned text.
//
// The first cut is derived from the text's empirical tokens-per-character
// ratio. Because the word-based estimate is not strictly proportional to
// length, the cut then shrinks until the re-estimate fits. Callers must
// trust only the returned count, never a projection.
//
// If text is empty, target is not positive, or text already fits, the
// input is returned unchanged with its estimate.
func Truncate(text string, target int, est Estimator) (string, int) {
	if len(text) == 0 || target <= 0 {
		return text, est.Estimate(text)
	}

	total := est.Estimate(text)
	if total <= target {
		return text, total
	}

	// Empirical density of this particular text. The character-based
	// floor in the estimator guarantees ratio >= 1/charsPerToken, so
	// maxChars is bounded.
	ratio := float64(total) / float64(len(text))
	maxChars := int(float64(target) / ratio)
	if maxChars > len(text) {
		maxChars = len(text)
	}

	for maxChars > 0 {
		candidate := cutAt(text, maxChars) + Marker
		if n := est.Estimate(candidate); n <= target {
			return candidate, n
		}

		// Shrink by 10% per round, always making progress.
		next := maxChars * 9 / 10
		if next >= maxChars {
			next = maxChars - 1
		}
		maxChars = next
	}

	// Degenerate target smaller than the marker itself. Return the bare
	// marker; its estimate may exceed target, which callers accept as
	// the documented lower bound of truncation.
	return Marker, est.Estimate(Marker)
}

// cutAt slices the first n bytes of text, backing up so the cut never
// splits a UTF-8 sequence.
func cutAt(text string, n int) string {
	if n >= len(text) {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
