package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/chunkcrawl/chunkcrawl/internal/session"
)

// Default fetcher settings.
const (
	// DefaultTimeout is the per-request timeout. 30 seconds covers slow
	// origins without letting a single page stall a whole session.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the tool in HTTP requests. A
	// descriptive User-Agent lets operators recognize the traffic.
	DefaultUserAgent = "chunkcrawl/1.0 (+https://github.com/chunkcrawl/chunkcrawl)"

	// DefaultMaxBodySize caps response bodies. 5MB is plenty for any
	// page worth chunking and prevents memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// HTTPFetcher is the default session.Fetcher over plain HTTP(S).
type HTTPFetcher struct {
	// client performs requests. Its timeout is the per-fetch timeout.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps how many body bytes are read.
	maxBodySize int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient substitutes the HTTP client, e.g. one with a proxy.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the response body read limit in bytes.
func WithMaxBodySize(n int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// NewHTTPFetcher creates a fetcher with sane defaults.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      &http.Client{Timeout: DefaultTimeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements session.Fetcher.
//
// The response body is decoded charset-aware, then either returned as
// raw HTML or reduced to extracted plain text depending on the format
// hint. Non-2xx/3xx responses are errors: a 404 page's error text is
// not content worth spending budget on.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string, opts session.FetchOptions) (*session.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read errors surface via io.ReadAll

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")

	body := io.LimitReader(resp.Body, f.maxBodySize)
	decoded, err := charset.NewReader(body, contentType)
	if err != nil {
		// Unknown charset: fall back to the raw bytes.
		decoded = body
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", pageURL, err)
	}

	content := string(data)
	metadata := map[string]string{
		"content_type": contentType,
		"status_code":  strconv.Itoa(resp.StatusCode),
	}

	if opts.Format != session.FormatHTML && strings.Contains(contentType, "html") {
		extracted := ExtractText(content)
		content = extracted.Text
		if extracted.Title != "" {
			metadata["title"] = extracted.Title
		}
	}

	return &session.FetchResult{Content: content, Metadata: metadata}, nil
}
