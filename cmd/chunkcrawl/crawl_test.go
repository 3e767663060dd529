package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/chunkcrawl/chunkcrawl/internal/model"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl <root-url> [<root-url>...]" {
			t.Errorf("unexpected use %q", cmd.Use)
		}
	})

	t.Run("requires at least one argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
	})

	t.Run("has max-pages flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-pages")
		if flag == nil {
			t.Fatal("expected max-pages flag")
		}
		if flag.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", flag.Shorthand)
		}
	})

	t.Run("has concurrency flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("concurrency") == nil {
			t.Fatal("expected concurrency flag")
		}
	})

	t.Run("has shared budget flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"max-tokens", "safety-factor", "delay", "cursor", "json", "markdown", "output"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestRunCrawlCmd tests the crawl command end to end against a local
// test server.
func TestRunCrawlCmd(t *testing.T) {
	t.Parallel()

	t.Run("crawls a small site into a json report", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body>
				<p>welcome to the docs</p>
				<a href="/install">install</a>
				<a href="/usage">usage</a>
			</body></html>`)
		})
		mux.HandleFunc("/install", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><p>installation steps</p></body></html>`)
		})
		mux.HandleFunc("/usage", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><p>usage guide</p></body></html>`)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		outFile := filepath.Join(t.TempDir(), "report.json")

		cmd := NewRootCmd()
		cmd.SetArgs([]string{
			"crawl", server.URL,
			"--json",
			"--output", outFile,
			"--delay", "0s",
		})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		var result model.CrawlReport
		if err := json.Unmarshal(data, &result); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}

		if result.State != model.StateCompleted {
			t.Errorf("expected completed state, got %q", result.State)
		}
		if result.TotalPages() != 3 {
			t.Errorf("expected 3 pages, got %d", result.TotalPages())
		}
		if len(result.Chunks) != 1 {
			t.Errorf("expected a single chunk, got %d", len(result.Chunks))
		}
	})

	t.Run("unreachable root fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{
			"crawl", "http://127.0.0.1:1/",
			"--delay", "0s",
			"--output", filepath.Join(t.TempDir(), "report.txt"),
		})

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected an error for unreachable root")
		}
	})

	t.Run("rejects conflicting report formats", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"crawl", "http://example.com", "--json", "--markdown"})

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected a configuration error")
		}
	})
}
