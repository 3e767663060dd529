package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chunkcrawl/chunkcrawl/internal/config"
	"github.com/chunkcrawl/chunkcrawl/internal/fetch"
	"github.com/chunkcrawl/chunkcrawl/internal/model"
	"github.com/chunkcrawl/chunkcrawl/internal/session"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <root-url> [<root-url>...]",
		Short: "Crawl a site into token-budgeted chunks",
		Long: `Crawl maps a site starting from the root URL, fetches every mapped
page in order, and packs the content into chunks that respect the token
budget. Pages too large for one chunk are truncated to fit.

Multiple roots are crawled in parallel, each as its own session.

Examples:
  # Crawl a documentation site
  chunkcrawl crawl https://docs.example.com

  # Crawl with a smaller budget and page cap
  chunkcrawl crawl --max-tokens 25000 --max-pages 40 https://docs.example.com

  # Resume a cancelled crawl from its resume cursor
  chunkcrawl crawl --cursor https://docs.example.com/api https://docs.example.com

  # Output JSON report to a file
  chunkcrawl crawl --json -o report.json https://docs.example.com

Configuration file (.chunkcrawl) example:
  sites:
    docs.example.com:
      cookie: "session_id=abc123"
      maxPages: 50
      ignorePatterns:
        - "/archive/*"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCrawlCmd,
	}

	addCommonFlags(cmd)

	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to map and fetch per root")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of roots crawled in parallel")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return err
	}
	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}
	cfg.Targets = args

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runCrawl(ctx, cfg, logger)
}

// runCrawl crawls every root, in parallel up to the concurrency limit.
// Each root is an independent session; one failing root does not stop
// the others, but the first error is reported after all finish.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	writer, closeOut, err := reportWriter(cfg)
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // Best effort close

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	start := time.Now()
	fmt.Printf("Crawling %d root(s) (concurrency: %d)...\n\n", len(cfg.Targets), cfg.Concurrency)

	for _, root := range cfg.Targets {
		g.Go(func() error {
			result, err := crawlRoot(gctx, cfg, logger, root)
			if err != nil {
				logger.Error("crawl failed", "root", root, "error", err)
				return fmt.Errorf("crawl of %s failed: %w", root, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if _, err := writer.WriteCrawl(result); err != nil {
				return fmt.Errorf("failed to write report for %s: %w", root, err)
			}
			return nil
		})
	}

	err = g.Wait()
	fmt.Printf("\nDone in %s\n", time.Since(start).Round(time.Millisecond))
	return err
}

// crawlRoot runs one crawl session for a single root URL.
func crawlRoot(ctx context.Context, cfg *config.Config, logger *slog.Logger, root string) (*model.CrawlReport, error) {
	site := siteConfigFor(cfg, root)

	maxPages := cfg.MaxPages
	if site.MaxPages > 0 {
		maxPages = site.MaxPages
	}

	mapperOpts := []fetch.MapperOption{
		fetch.WithMapperHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		fetch.WithMapperUserAgent(cfg.UserAgent),
		fetch.WithMapperDelay(cfg.CrawlDelay),
	}
	if len(site.IgnorePatterns) > 0 {
		mapperOpts = append(mapperOpts, fetch.WithIgnorePatterns(site.IgnorePatterns))
	}
	if len(site.FollowPatterns) > 0 {
		mapperOpts = append(mapperOpts, fetch.WithFollowPatterns(site.FollowPatterns))
	}

	sess, err := session.NewCrawlSession(
		fetch.NewLinkMapper(mapperOpts...),
		newFetcher(cfg),
		cfg.Budget(),
		session.WithLogger(logger),
		session.WithDelay(cfg.CrawlDelay),
		session.WithLimit(maxPages),
		session.WithCursor(cfg.Cursor),
		session.WithFetchOptions(fetchOptionsFor(cfg, site)),
	)
	if err != nil {
		return nil, err
	}

	return sess.Run(ctx, root)
}
