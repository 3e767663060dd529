package token

import (
	"math"
	"strings"
	"unicode"
)

// Estimator estimates the token cost of a text blob.
// Implementations must be deterministic and side-effect free: the packer
// calls Estimate repeatedly on overlapping inputs and relies on stable
// results for its budget arithmetic.
type Estimator interface {
	// Estimate returns the estimated token count for text.
	// The result is always >= 0, and 0 for empty text.
	Estimate(text string) int
}

// Heuristic token-cost coefficients.
// These are tuned to overestimate slightly for both prose and dense
// symbol-heavy text such as code or markup.
const (
	// tokensPerWord is the average token cost of a whitespace-delimited word.
	// English prose averages ~1.3 tokens per word in common BPE vocabularies.
	tokensPerWord = 1.3

	// tokensPerSymbol is the additional cost per non-word character.
	// Punctuation and operators frequently tokenize separately.
	tokensPerSymbol = 0.3

	// charsPerToken is the classic ~4-characters-per-token rule of thumb.
	charsPerToken = 4
)

// HeuristicEstimator is the default Estimator.
// It computes two independent estimates and returns the larger one:
//
//   - word-based: words x 1.3 + non-word characters x 0.3, rounded up
//   - character-based: ceil(len / 4)
//
// The word-based estimate catches verbose prose; the character-based
// estimate catches dense text with few spaces (minified code, markup,
// CJK). Taking the maximum biases the result high, which keeps callers
// from silently exceeding the real budget of a downstream model.
type HeuristicEstimator struct{}

// NewHeuristicEstimator creates the default heuristic estimator.
func NewHeuristicEstimator() HeuristicEstimator {
	return HeuristicEstimator{}
}

// Estimate implements Estimator.
func (HeuristicEstimator) Estimate(text string) int {
	if len(text) == 0 {
		return 0
	}

	words := len(strings.Fields(text))

	// Non-word characters: anything that is not a letter, digit, or
	// whitespace. Underscore counts as a word character because it is
	// part of identifiers in most programming languages.
	symbols := 0
	for _, r := range text {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		symbols++
	}

	wordEstimate := int(math.Ceil(float64(words)*tokensPerWord + float64(symbols)*tokensPerSymbol))
	charEstimate := (len(text) + charsPerToken - 1) / charsPerToken

	if wordEstimate > charEstimate {
		return wordEstimate
	}
	return charEstimate
}
