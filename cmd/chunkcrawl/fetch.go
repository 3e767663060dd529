package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chunkcrawl/chunkcrawl/internal/session"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url> [<url>...]",
		Short: "Fetch explicit URLs into a single chunk",
		Long: `Fetch retrieves the given URLs in order and packs their content into
a single chunk. When the list exceeds the token budget, the chunk
carries the first unprocessed URL as a cursor; re-run with --cursor to
continue from there.

Examples:
  # Fetch two pages into one chunk
  chunkcrawl fetch https://example.com/a https://example.com/b

  # Continue a batch that ran out of budget
  chunkcrawl fetch --cursor https://example.com/c https://example.com/a https://example.com/b https://example.com/c`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFetchCmd,
	}

	addCommonFlags(cmd)

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
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

	// Site overrides come from the first URL's host. A batch normally
	// targets one site; mixed-host batches just get the defaults.
	site := siteConfigFor(cfg, cfg.Targets[0])

	sess, err := session.NewBatchSession(
		newFetcher(cfg),
		cfg.Budget(),
		session.WithLogger(logger),
		session.WithDelay(cfg.CrawlDelay),
		session.WithCursor(cfg.Cursor),
		session.WithFetchOptions(fetchOptionsFor(cfg, site)),
	)
	if err != nil {
		return err
	}

	result, err := sess.Run(ctx, cfg.Targets)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	return outputAggregate(cfg, result)
}
