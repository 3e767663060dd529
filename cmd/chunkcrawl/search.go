package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chunkcrawl/chunkcrawl/internal/config"
	"github.com/chunkcrawl/chunkcrawl/internal/fetch"
	"github.com/chunkcrawl/chunkcrawl/internal/session"
)

// errNoSearchEndpoint is returned when the search command runs without
// a configured endpoint.
var errNoSearchEndpoint = errors.New("no search endpoint configured (use --endpoint)")

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the web and chunk the results",
		Long: `Search runs the query against a SearXNG-compatible JSON endpoint,
fetches the results that lack inline content, and packs everything into
a single chunk. When the results exceed the token budget, the chunk
carries a cursor; re-run with --cursor to continue from the next result.

Examples:
  # Search and chunk the first page of results
  chunkcrawl search --endpoint http://localhost:8888/search golang pagination

  # Continue where the previous chunk stopped
  chunkcrawl search --endpoint http://localhost:8888/search --cursor 4 golang pagination`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearchCmd,
	}

	addCommonFlags(cmd)

	cmd.Flags().StringP("endpoint", "e", "",
		"SearXNG-compatible search API endpoint (required)")
	cmd.Flags().IntP("limit", "l", config.DefaultSearchLimit,
		"Maximum number of search results to retrieve")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cfg.SearchEndpoint, err = cmd.Flags().GetString("endpoint")
	if err != nil {
		return err
	}
	cfg.SearchLimit, err = cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	cfg.Query = strings.Join(args, " ")

	if cfg.SearchEndpoint == "" {
		return errNoSearchEndpoint
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	searcher := fetch.NewJSONSearcher(cfg.SearchEndpoint,
		fetch.WithSearcherHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		fetch.WithSearcherUserAgent(cfg.UserAgent),
	)

	sess, err := session.NewSearchSession(
		searcher,
		newFetcher(cfg),
		cfg.Budget(),
		session.WithLogger(logger),
		session.WithDelay(cfg.CrawlDelay),
		session.WithLimit(cfg.SearchLimit),
		session.WithCursor(cfg.Cursor),
		session.WithFetchOptions(fetchOptionsFor(cfg, config.SiteConfig{})),
	)
	if err != nil {
		return err
	}

	result, err := sess.Run(ctx, cfg.Query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return outputAggregate(cfg, result)
}
