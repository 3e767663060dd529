package model

import "time"

// PageStatus indicates whether a page fetch succeeded.
type PageStatus string

// Page fetch statuses.
const (
	// PageStatusOK means the fetch completed and content is available.
	PageStatusOK PageStatus = "ok"

	// PageStatusFailed means the fetch failed; the record carries no content.
	PageStatusFailed PageStatus = "failed"
)

// PageRecord is one fetched unit of content flowing through the packer.
//
// A record is created by a session when a fetch completes and is immutable
// afterwards, with one exception: Content, Tokens, and Truncated are
// rewritten together by the truncator when a page is too large to fit any
// chunk on its own. That rewrite happens before the record is ever exposed
// to a caller.
type PageRecord struct {
	// URL is the page URL, unique within a session.
	URL string `json:"url"`

	// Content is the fetched (and possibly truncated) page content.
	Content string `json:"content"`

	// Tokens is the estimated token cost of Content.
	// Always the estimator's value for the content as delivered.
	Tokens int `json:"tokens"`

	// Truncated reports whether Content was cut to fit the token budget.
	Truncated bool `json:"truncated"`

	// FetchedAt is when the fetch completed.
	// Excluded from JSON: the chunk wire contract carries only the four
	// fields above.
	FetchedAt time.Time `json:"-"`

	// Status distinguishes fetched pages from failed ones.
	// Failed records never reach the packer; sessions count them instead.
	Status PageStatus `json:"-"`
}
