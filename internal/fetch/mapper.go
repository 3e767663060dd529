package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// LinkMapper discovers a site's URLs by walking same-host links
// breadth-first from a root page.
//
// The returned list is in discovery order (root first, then links in
// document order level by level), which is what makes crawl cursors
// replayable: mapping the same site twice yields the same order as long
// as the site itself has not changed.
type LinkMapper struct {
	// client performs the discovery requests.
	client *http.Client

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize caps how much of each page is read for link extraction.
	maxBodySize int64

	// delay is the politeness interval between discovery requests.
	delay time.Duration

	// ignorePatterns are URL path globs to skip (e.g. "/logout*", "*.pdf").
	ignorePatterns []string

	// followPatterns, when set, restrict discovery to matching paths.
	followPatterns []string
}

// MapperOption configures a LinkMapper.
type MapperOption func(*LinkMapper)

// WithMapperHTTPClient substitutes the HTTP client.
func WithMapperHTTPClient(client *http.Client) MapperOption {
	return func(m *LinkMapper) {
		if client != nil {
			m.client = client
		}
	}
}

// WithMapperUserAgent sets a custom User-Agent header.
func WithMapperUserAgent(ua string) MapperOption {
	return func(m *LinkMapper) {
		if ua != "" {
			m.userAgent = ua
		}
	}
}

// WithMapperDelay sets the politeness interval between discovery
// requests. Zero disables it.
func WithMapperDelay(d time.Duration) MapperOption {
	return func(m *LinkMapper) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// WithIgnorePatterns sets URL path globs to skip during discovery.
func WithIgnorePatterns(patterns []string) MapperOption {
	return func(m *LinkMapper) {
		m.ignorePatterns = patterns
	}
}

// WithFollowPatterns restricts discovery to URL paths matching at least
// one glob. Empty means all paths are allowed.
func WithFollowPatterns(patterns []string) MapperOption {
	return func(m *LinkMapper) {
		m.followPatterns = patterns
	}
}

// NewLinkMapper creates a mapper with sane defaults.
func NewLinkMapper(opts ...MapperOption) *LinkMapper {
	m := &LinkMapper{
		client:      &http.Client{Timeout: DefaultTimeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Map implements session.Mapper.
//
// The root must be reachable; an unreachable root is a mapping failure.
// Pages that fail during deeper discovery are skipped, losing only the
// links they would have contributed.
func (m *LinkMapper) Map(ctx context.Context, rootURL string, limit int) ([]string, error) {
	root, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", rootURL, err)
	}
	if root.Scheme != "http" && root.Scheme != "https" {
		root.Scheme = "https"
	}

	start := normalizeURL(root.String())
	order := []string{start}
	discovered := map[string]bool{start: true}
	queue := []string{start}
	first := true

	for len(queue) > 0 && len(order) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := queue[0]
		queue = queue[1:]

		if !first && m.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.delay):
			}
		}

		links, err := m.fetchLinks(ctx, pageURL)
		if err != nil {
			if first {
				return nil, fmt.Errorf("map %s: %w", rootURL, err)
			}
			continue
		}
		first = false

		for _, link := range links {
			if len(order) >= limit {
				break
			}
			normalized := normalizeURL(link)
			if discovered[normalized] {
				continue
			}
			if !sameHost(root.Host, normalized) || !m.shouldVisit(normalized) {
				continue
			}
			discovered[normalized] = true
			order = append(order, normalized)
			queue = append(queue, normalized)
		}
	}

	return order, nil
}

// fetchLinks retrieves one page and extracts its anchor targets,
// resolved to absolute URLs.
func (m *LinkMapper) fetchLinks(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", m.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Read errors surface via html.Parse

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
		return nil, nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, m.maxBodySize))
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href == "" || strings.HasPrefix(href, "#") ||
					strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
					continue
				}
				if resolved, err := base.Parse(href); err == nil {
					links = append(links, resolved.String())
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// shouldVisit applies the ignore/follow globs to a URL's path.
func (m *LinkMapper) shouldVisit(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range m.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(m.followPatterns) == 0 {
		return true
	}
	for _, pattern := range m.followPatterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern matches a URL path against a glob.
// "/prefix/*" matches anything under the prefix, "*.ext" matches by
// extension anywhere, and the rest goes through filepath.Match.
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}

	// Bare filename globs like "index.?" match the last path segment.
	if !strings.Contains(pattern, "/") {
		if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
			return true
		}
	}

	return false
}

// normalizeURL canonicalizes a URL so the same page is discovered once:
// fragments dropped, scheme and host lowercased, empty path rooted.
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// sameHost reports whether a URL belongs to the mapped site.
func sameHost(baseHost, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, baseHost)
}
