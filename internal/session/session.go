package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chunkcrawl/chunkcrawl/internal/model"
	"github.com/chunkcrawl/chunkcrawl/internal/token"
)

// Phase is the lifecycle phase of a running session.
// Terminal outcomes are reported via model.SessionState; Phase exists for
// logging and introspection while a run is in flight.
type Phase string

// Session phases.
const (
	PhaseIdle     Phase = "idle"
	PhaseMapping  Phase = "mapping"
	PhaseFetching Phase = "fetching"
	PhaseDone     Phase = "done"
)

// Default session settings.
const (
	// DefaultLimit caps mapped URLs or search results per run.
	DefaultLimit = 100

	// DefaultDelay is the politeness interval between fetches.
	// One second is conservative and respectful of upstream servers.
	DefaultDelay = 1 * time.Second
)

// settings holds the knobs shared by all three session kinds.
type settings struct {
	logger    *slog.Logger
	est       token.Estimator
	delay     time.Duration
	limit     int
	cursor    string
	fetchOpts FetchOptions
}

// newSettings returns the defaults, to be overridden by options.
func newSettings() settings {
	return settings{
		logger:    slog.Default(),
		est:       token.NewHeuristicEstimator(),
		delay:     DefaultDelay,
		limit:     DefaultLimit,
		fetchOpts: FetchOptions{Format: FormatText},
	}
}

// Option configures a session.
type Option func(*settings)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEstimator substitutes the token estimator, e.g. a model-exact
// tokenizer. The default is the biased-high heuristic.
func WithEstimator(est token.Estimator) Option {
	return func(s *settings) {
		if est != nil {
			s.est = est
		}
	}
}

// WithDelay sets the politeness interval between fetches.
// Zero disables the delay; useful in tests.
func WithDelay(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLimit caps how many URLs are mapped or results requested.
func WithLimit(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithCursor resumes a run from an earlier chunk's continuation cursor.
// For crawl and batch sessions the cursor is a URL; for search sessions
// it is a result index. An empty cursor starts from the beginning.
func WithCursor(cursor string) Option {
	return func(s *settings) {
		s.cursor = cursor
	}
}

// WithFetchOptions sets the content format and extra headers passed to
// every fetch in the session.
func WithFetchOptions(opts FetchOptions) Option {
	return func(s *settings) {
		if opts.Format == "" {
			opts.Format = FormatText
		}
		s.fetchOpts = opts
	}
}

// newSessionID returns a fresh unique session identifier.
func newSessionID() string {
	return uuid.NewString()
}

// fetchRecord performs one fetch and wraps the outcome as a PageRecord.
// The token count is always the estimator's value for the content as
// fetched; truncation, if needed, happens later in the packer.
func fetchRecord(ctx context.Context, f Fetcher, pageURL string, opts FetchOptions, est token.Estimator) (model.PageRecord, error) {
	res, err := f.Fetch(ctx, pageURL, opts)
	if err != nil {
		return model.PageRecord{
			URL:       pageURL,
			FetchedAt: time.Now(),
			Status:    model.PageStatusFailed,
		}, err
	}

	return model.PageRecord{
		URL:       pageURL,
		Content:   res.Content,
		Tokens:    est.Estimate(res.Content),
		FetchedAt: time.Now(),
		Status:    model.PageStatusOK,
	}, nil
}

// wait sleeps for the politeness delay, returning early if the context
// is cancelled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// afterCursor drops the prefix of urls up to (but not including) the
// cursor URL. An empty or unknown cursor leaves the list untouched so a
// stale cursor degrades to a full replay instead of silently skipping.
func afterCursor(urls []string, cursor string) []string {
	if cursor == "" {
		return urls
	}
	for i, u := range urls {
		if u == cursor {
			return urls[i:]
		}
	}
	return urls
}
