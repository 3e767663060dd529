package config

import "errors"

// Configuration validation errors.
//
// Design decision: Package-level sentinel errors rather than fresh
// instances in Validate(), so callers can use errors.Is() while the
// messages stay human-readable.
var (
	// ErrNoTarget is returned when neither URLs nor a query is given.
	ErrNoTarget = errors.New("no target specified: provide a URL or a search query")

	// ErrInvalidMaxPages is returned when the page cap is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidSearchLimit is returned when the result cap is not positive.
	ErrInvalidSearchLimit = errors.New("invalid search limit: must be positive")

	// ErrInvalidCrawlDelay is returned when the delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body cap is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidConcurrency is returned when the session parallelism is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
