package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/chunkcrawl/chunkcrawl/internal/session"
)

// JSONSearcher queries a SearXNG-compatible JSON search API.
//
// The API contract is minimal: GET <endpoint>?q=<query>&format=json
// returning {"results": [{"url", "title", "content"}, ...]} in ranked
// order. Self-hosted SearXNG instances expose exactly this.
type JSONSearcher struct {
	// endpoint is the search API base URL, e.g. "https://searx.example/search".
	endpoint string

	// client performs the API request.
	client *http.Client

	// userAgent is sent with the request.
	userAgent string
}

// SearcherOption configures a JSONSearcher.
type SearcherOption func(*JSONSearcher)

// WithSearcherHTTPClient substitutes the HTTP client.
func WithSearcherHTTPClient(client *http.Client) SearcherOption {
	return func(s *JSONSearcher) {
		if client != nil {
			s.client = client
		}
	}
}

// WithSearcherUserAgent sets a custom User-Agent header.
func WithSearcherUserAgent(ua string) SearcherOption {
	return func(s *JSONSearcher) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// NewJSONSearcher creates a searcher for the given API endpoint.
func NewJSONSearcher(endpoint string, opts ...SearcherOption) *JSONSearcher {
	s := &JSONSearcher{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// searchResponse is the wire shape of the search API reply.
type searchResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements session.Searcher.
// The engine's "content" field is a snippet, not the page: hits carry it
// as Snippet so the session knows it still has to fetch the page.
func (s *JSONSearcher) Search(ctx context.Context, query string, limit int) ([]session.SearchHit, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("search endpoint %s: %w", s.endpoint, err)
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read errors surface via the decoder

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q: unexpected status %d", query, resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, DefaultMaxBodySize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("search %q: decode response: %w", query, err)
	}

	hits := make([]session.SearchHit, 0, min(limit, len(payload.Results)))
	for _, r := range payload.Results {
		if len(hits) >= limit {
			break
		}
		if r.URL == "" {
			continue
		}
		hits = append(hits, session.SearchHit{
			URL:     r.URL,
			Title:   r.Title,
			Snippet: r.Content,
		})
	}

	return hits, nil
}
