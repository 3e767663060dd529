package model

// Chunk is a budget-bounded, ordered group of pages delivered to the
// caller as one response unit.
//
// Invariants:
//   - Pages preserve fetch order; chunks are never mutated after emission
//   - TotalTokens is the sum of the constituent page token counts and
//     never exceeds the budget, except for a chunk holding exactly one
//     page that was truncated and still overshoots due to estimator
//     imprecision (a documented, bounded overage)
//   - NextCursor is present if and only if HasMore is true
//
// The JSON field names are an external wire contract; do not rename them.
type Chunk struct {
	// Pages is the ordered list of pages in this chunk.
	// Non-empty unless the input stream itself was empty.
	Pages []PageRecord `json:"pages"`

	// TotalTokens is the sum of the token counts of Pages.
	TotalTokens int `json:"totalTokens"`

	// HasMore reports whether more input remains after this chunk.
	HasMore bool `json:"hasMore"`

	// NextCursor is the opaque continuation token for the next
	// unprocessed input item. For crawl and batch runs it is the next
	// URL; for search runs it is the next result index.
	NextCursor string `json:"nextCursor,omitempty"`
}

// PageCount returns the number of pages in the chunk.
func (c *Chunk) PageCount() int {
	return len(c.Pages)
}

// IsEmpty reports whether the chunk holds no pages.
// Only the aggregate result of an empty search/batch run is empty.
func (c *Chunk) IsEmpty() bool {
	return len(c.Pages) == 0
}
