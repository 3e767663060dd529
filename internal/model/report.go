package model

import "time"

// SessionState is the terminal state of a session run.
type SessionState string

// Terminal session states.
const (
	// StateCompleted means the whole input stream was processed.
	StateCompleted SessionState = "completed"

	// StateFailed means a fatal collaborator call (map or search) failed
	// before any page could be delivered.
	StateFailed SessionState = "failed"

	// StateCancelled means the caller cancelled mid-run. Chunks emitted
	// before cancellation are preserved and valid.
	StateCancelled SessionState = "cancelled"
)

// CrawlReport is the outcome of a crawl session: every chunk the run
// produced, in emission order.
//
// Design decision: Crawl returns the full chunk list while search and
// batch return a single aggregate chunk. The asymmetry is a deliberate
// external contract: a crawl is consumed as one multi-chunk response,
// while search/batch follow a stateless page-at-a-time continuation where
// the caller re-invokes with the cursor.
type CrawlReport struct {
	// SessionID uniquely identifies this run.
	SessionID string `json:"session_id"`

	// RootURL is the crawl starting point handed to the mapper.
	RootURL string `json:"root_url"`

	// Chunks holds every chunk emitted, in order. Concatenating their
	// pages reproduces the fetch-success order of the mapped URL list.
	Chunks []Chunk `json:"chunks"`

	// State is the terminal state of the run.
	State SessionState `json:"state"`

	// FailedURLs lists URLs whose fetch failed and was skipped.
	// Lets callers judge whether coverage was good enough.
	FailedURLs []string `json:"failed_urls,omitempty"`

	// ResumeCursor is set when the run was cancelled: the first URL that
	// was not offered to the packer. Replaying the mapped list from this
	// URL continues exactly where the run stopped.
	ResumeCursor string `json:"resume_cursor,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// TotalPages returns the number of pages delivered across all chunks.
func (r *CrawlReport) TotalPages() int {
	total := 0
	for i := range r.Chunks {
		total += len(r.Chunks[i].Pages)
	}
	return total
}

// TotalTokens returns the token sum across all chunks.
func (r *CrawlReport) TotalTokens() int {
	total := 0
	for i := range r.Chunks {
		total += r.Chunks[i].TotalTokens
	}
	return total
}

// AggregateReport is the outcome of a search or batch session: as much
// content as fit into the first chunk boundary, plus continuation state.
type AggregateReport struct {
	// SessionID uniquely identifies this run.
	SessionID string `json:"session_id"`

	// Source describes the input: the search query for search sessions,
	// or a summary of the URL list for batch sessions.
	Source string `json:"source"`

	// Chunk is the single aggregate result. Its HasMore/NextCursor tell
	// the caller how to fetch the next page of results.
	Chunk Chunk `json:"chunk"`

	// State is the terminal state of the run.
	State SessionState `json:"state"`

	// FailedURLs lists URLs whose fetch failed and was skipped.
	FailedURLs []string `json:"failed_urls,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
