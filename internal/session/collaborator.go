package session

import "context"

// Format selects how fetched content is delivered.
type Format string

// Content formats.
const (
	// FormatText delivers extracted plain text. This is the default:
	// token budgets are spent on content, not markup.
	FormatText Format = "text"

	// FormatHTML delivers the raw HTML body.
	FormatHTML Format = "html"
)

// FetchOptions carries caller hints for a single fetch.
// They affect what content comes back, never the chunking contract.
type FetchOptions struct {
	// Format selects text extraction or raw HTML.
	Format Format

	// Headers are extra HTTP headers for this fetch (auth, cookies).
	Headers map[string]string
}

// FetchResult is the outcome of a successful fetch.
type FetchResult struct {
	// Content is the page content in the requested format.
	Content string

	// Metadata carries transport details (content type, title, status)
	// that sessions may log but never chunk on.
	Metadata map[string]string
}

// Fetcher retrieves one page's content.
// Implementations must be safe to call repeatedly and should enforce
// their own per-request timeout; a timeout is treated like any other
// fetch failure.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string, opts FetchOptions) (*FetchResult, error)
}

// Mapper enumerates a site's URLs starting from a root, in the order
// they should be fetched, bounded by limit.
type Mapper interface {
	Map(ctx context.Context, rootURL string, limit int) ([]string, error)
}

// SearchHit is one ordered search result.
type SearchHit struct {
	// URL of the result.
	URL string

	// Title of the result page.
	Title string

	// Snippet is the search engine's excerpt.
	Snippet string

	// Content is the full content when the search backend already
	// supplies it. When empty, the session fetches the URL itself.
	Content string
}

// Searcher returns ordered search results for a query, bounded by limit.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}
