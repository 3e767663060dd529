package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chunkcrawl/chunkcrawl/internal/chunk"
	"github.com/chunkcrawl/chunkcrawl/internal/model"
)

// CrawlSession walks a whole site and delivers it as an ordered list of
// token-budgeted chunks.
//
// Lifecycle: Idle -> Mapping -> Fetching -> done. The mapper is called
// exactly once for the full ordered URL list; its failure is fatal. Each
// URL is then fetched sequentially with the politeness delay, and every
// successful page is offered to the packer. Chunks are appended to the
// report the moment they are emitted, so a consumer holding the report
// can stream them.
type CrawlSession struct {
	id      string
	mapper  Mapper
	fetcher Fetcher
	packer  *chunk.Packer
	budget  chunk.TokenBudget
	opts    settings
	phase   Phase
}

// NewCrawlSession creates a crawl session over the given collaborators.
// The budget is validated up front so a misconfigured session fails
// before any network traffic.
func NewCrawlSession(mapper Mapper, fetcher Fetcher, budget chunk.TokenBudget, opts ...Option) (*CrawlSession, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	s := newSettings()
	for _, opt := range opts {
		opt(&s)
	}

	return &CrawlSession{
		id:      newSessionID(),
		mapper:  mapper,
		fetcher: fetcher,
		packer:  chunk.NewPacker(budget, s.est),
		budget:  budget,
		opts:    s,
		phase:   PhaseIdle,
	}, nil
}

// ID returns the session's unique identifier.
func (s *CrawlSession) ID() string { return s.id }

// Phase returns the current lifecycle phase.
// Sessions are single-goroutine; Phase is for the owning goroutine's
// logging, not for concurrent observation.
func (s *CrawlSession) Phase() Phase { return s.phase }

// Run crawls rootURL and returns the full chunk list.
//
// The returned report is never nil. A mapping failure yields a Failed
// report and an error; fetch failures are skipped and counted; caller
// cancellation yields a Cancelled report with no error, preserving every
// chunk emitted so far and flushing the partial one.
func (s *CrawlSession) Run(ctx context.Context, rootURL string) (*model.CrawlReport, error) {
	report := &model.CrawlReport{
		SessionID: s.id,
		RootURL:   rootURL,
		StartedAt: time.Now(),
	}

	logger := s.opts.logger.With("session", s.id, "root", rootURL)

	s.phase = PhaseMapping
	logger.Info("mapping site", "limit", s.opts.limit)

	urls, err := s.mapper.Map(ctx, rootURL, s.opts.limit)
	if err != nil {
		s.phase = PhaseDone
		report.FinishedAt = time.Now()

		// Cancellation during mapping is not a mapping failure.
		if ctx.Err() != nil {
			report.State = model.StateCancelled
			logger.Warn("crawl cancelled during mapping")
			return report, nil
		}

		report.State = model.StateFailed
		logger.Error("mapping failed", "error", err)
		return report, fmt.Errorf("map %s: %w", rootURL, err)
	}

	urls = afterCursor(urls, s.opts.cursor)
	logger.Info("mapping complete", "urls", len(urls))

	s.phase = PhaseFetching
	cancelled := false

	for i, pageURL := range urls {
		// Cancellation is checked before each fetch. Chunks already
		// emitted stay valid; the resume cursor marks where to pick up.
		if ctx.Err() != nil {
			cancelled = true
			report.ResumeCursor = pageURL
			break
		}

		if i > 0 {
			if err := wait(ctx, s.opts.delay); err != nil {
				cancelled = true
				report.ResumeCursor = pageURL
				break
			}
		}

		rec, err := fetchRecord(ctx, s.fetcher, pageURL, s.opts.fetchOpts, s.opts.est)
		if err != nil {
			logger.Warn("fetch failed, skipping", "url", pageURL, "error", err)
			report.FailedURLs = append(report.FailedURLs, pageURL)
			continue
		}

		logger.Debug("page fetched", "url", pageURL, "tokens", rec.Tokens)

		if c := s.packer.Offer(rec); c != nil {
			report.Chunks = append(report.Chunks, *c)
			logger.Info("chunk emitted",
				"pages", len(c.Pages),
				"tokens", c.TotalTokens,
				"cursor", c.NextCursor,
			)
		}
	}

	// Always flush: buffered pages must never be dropped, whether the
	// run completed or was cancelled.
	if c := s.packer.Flush(); c != nil {
		report.Chunks = append(report.Chunks, *c)
	}

	s.phase = PhaseDone
	report.FinishedAt = time.Now()
	if cancelled {
		report.State = model.StateCancelled
		logger.Warn("crawl cancelled",
			"chunks", len(report.Chunks),
			"resume_cursor", report.ResumeCursor,
		)
	} else {
		report.State = model.StateCompleted
		logger.Info("crawl complete",
			"chunks", len(report.Chunks),
			"pages", report.TotalPages(),
			"failed", len(report.FailedURLs),
		)
	}

	return report, nil
}
