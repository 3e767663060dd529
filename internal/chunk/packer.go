package chunk

import (
	"github.com/chunkcrawl/chunkcrawl/internal/model"
	"github.com/chunkcrawl/chunkcrawl/internal/token"
)

// Packer groups an ordered stream of pages into budget-bounded chunks.
//
// State is just the current accumulator (pages and their token sum) plus
// the fixed budget. Offer and Flush are the only operations; both are
// synchronous and never block.
type Packer struct {
	// budget is fixed for the packer's lifetime.
	budget TokenBudget

	// est re-estimates content when an oversized page is truncated.
	est token.Estimator

	// pages is the current accumulator, in insertion order.
	pages []model.PageRecord

	// tokens is the token sum of pages.
	tokens int
}

// NewPacker creates a Packer for the given budget.
// If est is nil, the default heuristic estimator is used.
func NewPacker(budget TokenBudget, est token.Estimator) *Packer {
	if est == nil {
		est = token.NewHeuristicEstimator()
	}
	return &Packer{
		budget: budget,
		est:    est,
	}
}

// Offer feeds the next page to the packer. It returns a finished chunk if
// accepting the page closed one, or nil otherwise.
//
// The boundary check is strictly greater-than: a page that exactly fills
// the remaining budget is included in the current chunk, not deferred.
//
// A page whose token count alone exceeds the budget is truncated to
// TruncationTarget and becomes the sole member of the next chunk. Its
// record's Content, Tokens, and Truncated fields are rewritten together
// before the page is ever visible to callers.
func (p *Packer) Offer(page model.PageRecord) *model.Chunk {
	var emitted *model.Chunk

	// Close the current chunk if this page would overflow it. The cursor
	// points at the page that did not fit, so replaying the input from
	// there reproduces the continuation exactly.
	if len(p.pages) > 0 && p.tokens+page.Tokens > p.budget.MaxTokensPerChunk {
		emitted = p.emit(true, page.URL)
	}

	if page.Tokens > p.budget.MaxTokensPerChunk {
		content, n := token.Truncate(page.Content, p.budget.TruncationTarget(), p.est)
		page.Content = content
		page.Tokens = n
		page.Truncated = true
	}

	p.pages = append(p.pages, page)
	p.tokens += page.Tokens

	return emitted
}

// Flush closes the stream, emitting any buffered pages as a final chunk
// with no continuation. Returns nil if nothing is buffered.
func (p *Packer) Flush() *model.Chunk {
	if len(p.pages) == 0 {
		return nil
	}
	return p.emit(false, "")
}

// Pending returns the number of pages buffered but not yet emitted.
func (p *Packer) Pending() int {
	return len(p.pages)
}

// PendingTokens returns the token sum of the buffered pages.
func (p *Packer) PendingTokens() int {
	return p.tokens
}

// emit builds a chunk from the accumulator and resets it.
func (p *Packer) emit(hasMore bool, cursor string) *model.Chunk {
	c := &model.Chunk{
		Pages:       p.pages,
		TotalTokens: p.tokens,
		HasMore:     hasMore,
		NextCursor:  cursor,
	}
	p.pages = nil
	p.tokens = 0
	return c
}
