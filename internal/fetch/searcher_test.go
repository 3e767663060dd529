package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestJSONSearcherSearch tests the search API client.
func TestJSONSearcherSearch(t *testing.T) {
	t.Parallel()

	t.Run("maps ranked results to hits", func(t *testing.T) {
		t.Parallel()

		var gotQuery, gotFormat string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			gotFormat = r.URL.Query().Get("format")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"results": [
				{"url": "http://a.test/1", "title": "First", "content": "snippet one"},
				{"url": "http://b.test/2", "title": "Second", "content": "snippet two"}
			]}`))
		}))
		defer srv.Close()

		s := NewJSONSearcher(srv.URL)
		hits, err := s.Search(context.Background(), "go chunking", 10)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}

		if gotQuery != "go chunking" || gotFormat != "json" {
			t.Errorf("expected q and format params, got q=%q format=%q", gotQuery, gotFormat)
		}
		if len(hits) != 2 {
			t.Fatalf("expected 2 hits, got %d", len(hits))
		}
		if hits[0].URL != "http://a.test/1" || hits[0].Title != "First" || hits[0].Snippet != "snippet one" {
			t.Errorf("unexpected first hit: %+v", hits[0])
		}
		if hits[0].Content != "" {
			t.Error("the engine snippet must not be treated as page content")
		}
	})

	t.Run("applies the result limit", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"results": [
				{"url": "http://a.test/1"}, {"url": "http://a.test/2"},
				{"url": "http://a.test/3"}, {"url": "http://a.test/4"}
			]}`))
		}))
		defer srv.Close()

		s := NewJSONSearcher(srv.URL)
		hits, err := s.Search(context.Background(), "q", 2)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}

		if len(hits) != 2 {
			t.Errorf("expected 2 hits, got %d", len(hits))
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		s := NewJSONSearcher(srv.URL)
		if _, err := s.Search(context.Background(), "q", 5); err == nil {
			t.Fatal("expected an error for status 429")
		}
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer srv.Close()

		s := NewJSONSearcher(srv.URL)
		if _, err := s.Search(context.Background(), "q", 5); err == nil {
			t.Fatal("expected a decode error")
		}
	})

	t.Run("results without a url are dropped", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results": [{"title": "no url"}, {"url": "http://a.test/1"}]}`))
		}))
		defer srv.Close()

		s := NewJSONSearcher(srv.URL)
		hits, err := s.Search(context.Background(), "q", 5)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}

		if len(hits) != 1 || hits[0].URL != "http://a.test/1" {
			t.Errorf("expected the url-less result dropped, got %+v", hits)
		}
	})
}
