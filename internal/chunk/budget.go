package chunk

import "errors"

// DefaultSafetyFactor is applied when truncating a page too large for any
// chunk. Truncating to 90% of the budget leaves slack for the estimator's
// imprecision on the truncated text.
const DefaultSafetyFactor = 0.9

// Budget validation errors.
var (
	// ErrInvalidBudget is returned when MaxTokensPerChunk is not positive.
	// A zero budget would make every page oversized.
	ErrInvalidBudget = errors.New("invalid token budget: max tokens per chunk must be positive")

	// ErrInvalidSafetyFactor is returned when SafetyFactor is outside (0, 1].
	ErrInvalidSafetyFactor = errors.New("invalid safety factor: must be in (0, 1]")
)

// TokenBudget is the immutable packing configuration for one session.
type TokenBudget struct {
	// MaxTokensPerChunk is the hard ceiling on a chunk's token total.
	MaxTokensPerChunk int

	// SafetyFactor scales the budget when truncating an oversized single
	// page. Applied only in that case, never to multi-page packing.
	SafetyFactor float64
}

// NewTokenBudget creates a TokenBudget with the default safety factor.
func NewTokenBudget(maxTokensPerChunk int) TokenBudget {
	return TokenBudget{
		MaxTokensPerChunk: maxTokensPerChunk,
		SafetyFactor:      DefaultSafetyFactor,
	}
}

// Validate checks the budget before a session starts.
func (b TokenBudget) Validate() error {
	if b.MaxTokensPerChunk <= 0 {
		return ErrInvalidBudget
	}
	if b.SafetyFactor <= 0 || b.SafetyFactor > 1 {
		return ErrInvalidSafetyFactor
	}
	return nil
}

// TruncationTarget returns the token target for truncating an oversized
// single page: floor(SafetyFactor x MaxTokensPerChunk).
func (b TokenBudget) TruncationTarget() int {
	return int(b.SafetyFactor * float64(b.MaxTokensPerChunk))
}
