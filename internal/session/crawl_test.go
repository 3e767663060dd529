package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/chunkcrawl/chunkcrawl/internal/chunk"
	"github.com/chunkcrawl/chunkcrawl/internal/model"
)

// lenEstimator counts one token per byte, making chunk boundaries exact
// in tests.
type lenEstimator struct{}

// Estimate implements token.Estimator.
func (lenEstimator) Estimate(text string) int { return len(text) }

// stubMapper returns a fixed URL list.
type stubMapper struct {
	urls  []string
	err   error
	calls int
}

// Map implements Mapper.
func (m *stubMapper) Map(_ context.Context, _ string, _ int) ([]string, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.urls, nil
}

// stubFetcher serves canned content and can fail specific URLs or
// cancel the run after a number of fetches.
type stubFetcher struct {
	content     map[string]string
	fail        map[string]bool
	fetched     []string
	cancel      context.CancelFunc
	cancelAfter int
}

// Fetch implements Fetcher.
func (f *stubFetcher) Fetch(_ context.Context, pageURL string, _ FetchOptions) (*FetchResult, error) {
	f.fetched = append(f.fetched, pageURL)
	if f.fail[pageURL] {
		return nil, errors.New("connection refused")
	}
	if f.cancel != nil && len(f.fetched) >= f.cancelAfter {
		f.cancel()
	}
	return &FetchResult{Content: f.content[pageURL]}, nil
}

// crawlFixture builds n URLs each backed by content of the given sizes.
func crawlFixture(sizes []int) ([]string, map[string]string) {
	urls := make([]string, 0, len(sizes))
	content := make(map[string]string, len(sizes))
	for i, n := range sizes {
		u := fmt.Sprintf("http://site.test/p%d", i+1)
		urls = append(urls, u)
		content[u] = strings.Repeat("x", n)
	}
	return urls, content
}

// TestCrawlSessionRun tests the crawl orchestration.
func TestCrawlSessionRun(t *testing.T) {
	t.Parallel()

	t.Run("splits pages across chunks preserving order", func(t *testing.T) {
		t.Parallel()

		sizes := make([]int, 10)
		for i := range sizes {
			sizes[i] = 12000
		}
		urls, content := crawlFixture(sizes)

		mapper := &stubMapper{urls: urls}
		fetcher := &stubFetcher{content: content}

		s, err := NewCrawlSession(mapper, fetcher, chunk.NewTokenBudget(100000),
			WithEstimator(lenEstimator{}), WithDelay(0))
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		report, err := s.Run(context.Background(), "http://site.test")
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if report.State != model.StateCompleted {
			t.Errorf("expected completed state, got %s", report.State)
		}
		if len(report.Chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(report.Chunks))
		}
		if got := report.Chunks[0].TotalTokens; got != 96000 {
			t.Errorf("expected first chunk at 96000 tokens, got %d", got)
		}
		if cursor := report.Chunks[0].NextCursor; cursor != "http://site.test/p9" {
			t.Errorf("expected cursor p9, got %q", cursor)
		}

		// Concatenated pages reproduce the mapped order.
		var delivered []string
		for _, c := range report.Chunks {
			for _, p := range c.Pages {
				delivered = append(delivered, p.URL)
			}
		}
		for i, u := range urls {
			if delivered[i] != u {
				t.Errorf("position %d: expected %s, got %s", i, u, delivered[i])
			}
		}
	})

	t.Run("mapping failure is fatal", func(t *testing.T) {
		t.Parallel()

		mapper := &stubMapper{err: errors.New("dns failure")}
		fetcher := &stubFetcher{}

		s, err := NewCrawlSession(mapper, fetcher, chunk.NewTokenBudget(1000), WithDelay(0))
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		report, err := s.Run(context.Background(), "http://down.test")
		if err == nil {
			t.Fatal("expected an error from a failed mapping")
		}
		if report.State != model.StateFailed {
			t.Errorf("expected failed state, got %s", report.State)
		}
		if len(report.Chunks) != 0 {
			t.Errorf("expected no chunks, got %d", len(report.Chunks))
		}
		if len(fetcher.fetched) != 0 {
			t.Errorf("no fetch should happen after a failed mapping, got %d", len(fetcher.fetched))
		}
	})

	t.Run("failed fetches are skipped and counted", func(t *testing.T) {
		t.Parallel()

		urls, content := crawlFixture([]int{100, 100, 100})
		mapper := &stubMapper{urls: urls}
		fetcher := &stubFetcher{
			content: content,
			fail:    map[string]bool{urls[1]: true},
		}

		s, err := NewCrawlSession(mapper, fetcher, chunk.NewTokenBudget(1000),
			WithEstimator(lenEstimator{}), WithDelay(0))
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		report, err := s.Run(context.Background(), "http://site.test")
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if report.State != model.StateCompleted {
			t.Errorf("a skipped fetch must not fail the run, got %s", report.State)
		}
		if len(report.FailedURLs) != 1 || report.FailedURLs[0] != urls[1] {
			t.Errorf("expected the failed URL to be recorded, got %v", report.FailedURLs)
		}
		if report.TotalPages() != 2 {
			t.Errorf("expected 2 delivered pages, got %d", report.TotalPages())
		}
	})

	t.Run("cancellation flushes and preserves chunks", func(t *testing.T) {
		t.Parallel()

		sizes := make([]int, 6)
		for i := range sizes {
			sizes[i] = 400
		}
		urls, content := crawlFixture(sizes)

		ctx, cancel := context.WithCancel(context.Background())
		mapper := &stubMapper{urls: urls}
		fetcher := &stubFetcher{content: content, cancel: cancel, cancelAfter: 3}

		s, err := NewCrawlSession(mapper, fetcher, chunk.NewTokenBudget(1000),
			WithEstimator(lenEstimator{}), WithDelay(0))
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		report, err := s.Run(ctx, "http://site.test")
		if err != nil {
			t.Fatalf("cancellation must not be an error: %v", err)
		}

		if report.State != model.StateCancelled {
			t.Errorf("expected cancelled state, got %s", report.State)
		}
		if report.ResumeCursor != urls[3] {
			t.Errorf("expected resume cursor %s, got %q", urls[3], report.ResumeCursor)
		}

		// 3 pages of 400 tokens: one chunk boundary at page 3, then the
		// buffered page flushed. Nothing buffered may be dropped.
		if report.TotalPages() != 3 {
			t.Errorf("expected the 3 fetched pages preserved, got %d", report.TotalPages())
		}
		if last := report.Chunks[len(report.Chunks)-1]; last.HasMore {
			t.Error("flushed chunk must not report more input")
		}
	})

	t.Run("cursor resumes mid-list", func(t *testing.T) {
		t.Parallel()

		urls, content := crawlFixture([]int{100, 100, 100, 100})
		mapper := &stubMapper{urls: urls}
		fetcher := &stubFetcher{content: content}

		s, err := NewCrawlSession(mapper, fetcher, chunk.NewTokenBudget(1000),
			WithEstimator(lenEstimator{}), WithDelay(0), WithCursor(urls[2]))
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		report, err := s.Run(context.Background(), "http://site.test")
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if report.TotalPages() != 2 {
			t.Errorf("expected only the 2 URLs after the cursor, got %d pages", report.TotalPages())
		}
		if fetcher.fetched[0] != urls[2] {
			t.Errorf("expected fetching to start at the cursor, got %s", fetcher.fetched[0])
		}
	})

	t.Run("empty mapping yields zero chunks", func(t *testing.T) {
		t.Parallel()

		mapper := &stubMapper{urls: nil}
		fetcher := &stubFetcher{}

		s, err := NewCrawlSession(mapper, fetcher, chunk.NewTokenBudget(1000), WithDelay(0))
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		report, err := s.Run(context.Background(), "http://empty.test")
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if len(report.Chunks) != 0 {
			t.Errorf("expected no chunks for an empty site, got %d", len(report.Chunks))
		}
		if report.State != model.StateCompleted {
			t.Errorf("expected completed state, got %s", report.State)
		}
	})

	t.Run("rejects an invalid budget", func(t *testing.T) {
		t.Parallel()

		_, err := NewCrawlSession(&stubMapper{}, &stubFetcher{}, chunk.NewTokenBudget(0))
		if !errors.Is(err, chunk.ErrInvalidBudget) {
			t.Errorf("expected ErrInvalidBudget, got %v", err)
		}
	})
}
