package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chunkcrawl/chunkcrawl/internal/chunk"
	"github.com/chunkcrawl/chunkcrawl/internal/config"
	"github.com/chunkcrawl/chunkcrawl/internal/fetch"
	"github.com/chunkcrawl/chunkcrawl/internal/log"
	"github.com/chunkcrawl/chunkcrawl/internal/model"
	"github.com/chunkcrawl/chunkcrawl/internal/report"
	"github.com/chunkcrawl/chunkcrawl/internal/session"
)

// addCommonFlags registers the flags shared by every session command.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-tokens", config.DefaultMaxTokensPerChunk,
		"Maximum tokens per chunk")
	cmd.Flags().Float64("safety-factor", chunk.DefaultSafetyFactor,
		"Budget fraction used when truncating an oversized page (0 < f <= 1)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between fetches")
	cmd.Flags().Int64("max-body", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().Bool("raw-html", false,
		"Deliver raw HTML instead of extracted text")
	cmd.Flags().String("cursor", "",
		"Resume from a continuation cursor of a previous run")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .chunkcrawl in current, XDG config, or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// buildConfig creates a Config from the shared cobra flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxTokensPerChunk, err = cmd.Flags().GetInt("max-tokens")
	if err != nil {
		return nil, err
	}

	cfg.SafetyFactor, err = cmd.Flags().GetFloat64("safety-factor")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body")
	if err != nil {
		return nil, err
	}

	cfg.RawHTML, err = cmd.Flags().GetBool("raw-html")
	if err != nil {
		return nil, err
	}

	cfg.Cursor, err = cmd.Flags().GetString("cursor")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.Sites, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.Sites = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// Page content attributes are clipped so debug output stays readable.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(log.NewClipHandler(handler))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// siteConfigFor returns the merged per-site overrides for a target URL.
func siteConfigFor(cfg *config.Config, target string) config.SiteConfig {
	if cfg.Sites == nil {
		return config.SiteConfig{}
	}

	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return cfg.Sites.SiteFor(target)
	}
	return cfg.Sites.SiteFor(u.Hostname())
}

// fetchOptionsFor builds the per-request options from config and site
// overrides. The site cookie becomes a Cookie header.
func fetchOptionsFor(cfg *config.Config, site config.SiteConfig) session.FetchOptions {
	format := session.FormatText
	if cfg.RawHTML {
		format = session.FormatHTML
	}

	headers := make(map[string]string, len(site.Headers)+1)
	for k, v := range site.Headers {
		headers[k] = v
	}
	if site.Cookie != "" {
		headers["Cookie"] = site.Cookie
	}

	return session.FetchOptions{
		Format:  format,
		Headers: headers,
	}
}

// newFetcher builds the HTTP fetcher the sessions share.
func newFetcher(cfg *config.Config) *fetch.HTTPFetcher {
	return fetch.NewHTTPFetcher(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)
}

// reportWriter selects the report writer from config: JSON, Markdown,
// or the human-readable default, written to --output or stdout.
func reportWriter(cfg *config.Config) (report.Writer, func() error, error) {
	out, err := report.OpenOutput(cfg.ReportFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open report output: %w", err)
	}

	closer := func() error { return nil }
	if cfg.ReportFile != "" {
		closer = out.Close
	}

	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out, report.WithPrettyPrint()), closer, nil
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out), closer, nil
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose)), closer, nil
	}
}

// outputAggregate writes a search or batch report in the configured
// format.
func outputAggregate(cfg *config.Config, result *model.AggregateReport) error {
	w, closeOut, err := reportWriter(cfg)
	if err != nil {
		return err
	}
	defer closeOut() //nolint:errcheck // Best effort close

	if _, err := w.WriteAggregate(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
