package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chunkcrawl/chunkcrawl/internal/chunk"
	"github.com/chunkcrawl/chunkcrawl/internal/model"
)

// BatchSession fetches a fixed, caller-supplied URL list and delivers as
// much as fits into a single token-budgeted chunk.
//
// There is no mapping phase: the list is the input stream. The fetch and
// pack loop matches crawl, but the result contract matches search: the
// run stops at the first chunk boundary and the chunk's cursor (the next
// URL) is the continuation point.
type BatchSession struct {
	id      string
	fetcher Fetcher
	packer  *chunk.Packer
	opts    settings
	phase   Phase
}

// NewBatchSession creates a batch session over the given fetcher.
func NewBatchSession(fetcher Fetcher, budget chunk.TokenBudget, opts ...Option) (*BatchSession, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	s := newSettings()
	for _, opt := range opts {
		opt(&s)
	}

	return &BatchSession{
		id:      newSessionID(),
		fetcher: fetcher,
		packer:  chunk.NewPacker(budget, s.est),
		opts:    s,
		phase:   PhaseIdle,
	}, nil
}

// ID returns the session's unique identifier.
func (s *BatchSession) ID() string { return s.id }

// Phase returns the current lifecycle phase.
func (s *BatchSession) Phase() Phase { return s.phase }

// Run fetches the given URLs in order and returns the first chunk's
// worth of content. Fetch failures are skipped and counted; caller
// cancellation flushes buffered pages and keeps the continuation alive.
func (s *BatchSession) Run(ctx context.Context, urls []string) (*model.AggregateReport, error) {
	report := &model.AggregateReport{
		SessionID: s.id,
		Source:    fmt.Sprintf("batch of %d urls", len(urls)),
		StartedAt: time.Now(),
	}

	logger := s.opts.logger.With("session", s.id, "urls", len(urls))

	urls = afterCursor(urls, s.opts.cursor)

	s.phase = PhaseFetching
	cancelled := false
	next := ""

	for i, pageURL := range urls {
		if ctx.Err() != nil {
			cancelled = true
			next = pageURL
			break
		}

		if i > 0 {
			if err := wait(ctx, s.opts.delay); err != nil {
				cancelled = true
				next = pageURL
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

		// First emission ends the run; the packer's cursor is already
		// the URL that did not fit.
		if c := s.packer.Offer(rec); c != nil {
			s.phase = PhaseDone
			report.Chunk = *c
			report.State = model.StateCompleted
			report.FinishedAt = time.Now()
			logger.Info("chunk boundary reached",
				"pages", len(c.Pages),
				"tokens", c.TotalTokens,
				"cursor", c.NextCursor,
			)
			return report, nil
		}
	}

	report.Chunk = s.drain(cancelled, next)

	s.phase = PhaseDone
	report.FinishedAt = time.Now()
	if cancelled {
		report.State = model.StateCancelled
		logger.Warn("batch cancelled", "pages", len(report.Chunk.Pages))
	} else {
		report.State = model.StateCompleted
		logger.Info("batch complete",
			"pages", len(report.Chunk.Pages),
			"tokens", report.Chunk.TotalTokens,
			"failed", len(report.FailedURLs),
		)
	}

	return report, nil
}

// drain flushes the packer into the aggregate chunk, keeping the
// continuation alive when the run was cancelled with input remaining.
func (s *BatchSession) drain(cancelled bool, cursor string) model.Chunk {
	c := s.packer.Flush()
	if c == nil {
		c = &model.Chunk{Pages: []model.PageRecord{}}
	}
	if cancelled && cursor != "" {
		c.HasMore = true
		c.NextCursor = cursor
	}
	return *c
}
