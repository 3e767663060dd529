package session

import (
	"context"
	"strconv"
	"time"

	"github.com/chunkcrawl/chunkcrawl/internal/chunk"
	"github.com/chunkcrawl/chunkcrawl/internal/model"
)

// SearchSession retrieves ordered search results and delivers as many as
// fit into a single token-budgeted chunk.
//
// Unlike crawl, search stops at the first chunk boundary: the moment the
// packer emits a chunk, that chunk is the whole result and its cursor
// points at the first unprocessed result index. The caller re-invokes
// with the cursor to page onward. This keeps the continuation stateless.
type SearchSession struct {
	id       string
	searcher Searcher
	fetcher  Fetcher
	packer   *chunk.Packer
	opts     settings
	phase    Phase
}

// NewSearchSession creates a search session over the given collaborators.
func NewSearchSession(searcher Searcher, fetcher Fetcher, budget chunk.TokenBudget, opts ...Option) (*SearchSession, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	s := newSettings()
	for _, opt := range opts {
		opt(&s)
	}

	return &SearchSession{
		id:       newSessionID(),
		searcher: searcher,
		fetcher:  fetcher,
		packer:   chunk.NewPacker(budget, s.est),
		opts:     s,
		phase:    PhaseIdle,
	}, nil
}

// ID returns the session's unique identifier.
func (s *SearchSession) ID() string { return s.id }

// Phase returns the current lifecycle phase.
func (s *SearchSession) Phase() Phase { return s.phase }

// Run searches for query and returns the first chunk's worth of results.
//
// A search backend failure is fatal. Results that already carry content
// skip the fetch; the rest go through the fetcher with the politeness
// delay, and failures are skipped and counted like in a crawl.
func (s *SearchSession) Run(ctx context.Context, query string) (*model.AggregateReport, error) {
	report := &model.AggregateReport{
		SessionID: s.id,
		Source:    query,
		StartedAt: time.Now(),
	}

	logger := s.opts.logger.With("session", s.id, "query", query)

	s.phase = PhaseMapping
	logger.Info("searching", "limit", s.opts.limit)

	hits, err := s.searcher.Search(ctx, query, s.opts.limit)
	if err != nil {
		s.phase = PhaseDone
		report.State = model.StateFailed
		report.FinishedAt = time.Now()
		logger.Error("search failed", "error", err)
		return report, err
	}

	// The search cursor is the next result index.
	start := 0
	if s.opts.cursor != "" {
		if n, err := strconv.Atoi(s.opts.cursor); err == nil && n >= 0 && n < len(hits) {
			start = n
		}
	}

	s.phase = PhaseFetching
	cancelled := false
	fetched := 0
	next := len(hits)

	for i := start; i < len(hits); i++ {
		if ctx.Err() != nil {
			cancelled = true
			next = i
			break
		}

		hit := hits[i]
		content := hit.Content

		// Fetch only when the backend did not supply content. The
		// politeness delay applies between actual fetches, not free
		// backend-supplied results.
		if content == "" {
			if fetched > 0 {
				if err := wait(ctx, s.opts.delay); err != nil {
					cancelled = true
					next = i
					break
				}
			}

			rec, err := fetchRecord(ctx, s.fetcher, hit.URL, s.opts.fetchOpts, s.opts.est)
			fetched++
			if err != nil {
				logger.Warn("fetch failed, skipping result", "url", hit.URL, "error", err)
				report.FailedURLs = append(report.FailedURLs, hit.URL)
				continue
			}
			content = rec.Content
		}

		rec := model.PageRecord{
			URL:       hit.URL,
			Content:   content,
			Tokens:    s.opts.est.Estimate(content),
			FetchedAt: time.Now(),
			Status:    model.PageStatusOK,
		}

		// First emission ends the run: the emitted chunk is the whole
		// aggregate, and result i (re-buffered by the packer) is the
		// continuation point.
		if c := s.packer.Offer(rec); c != nil {
			c.NextCursor = strconv.Itoa(i)
			s.phase = PhaseDone
			report.Chunk = *c
			report.State = model.StateCompleted
			report.FinishedAt = time.Now()
			logger.Info("chunk boundary reached",
				"pages", len(c.Pages),
				"tokens", c.TotalTokens,
				"next_index", i,
			)
			return report, nil
		}
	}

	report.Chunk = s.drain(cancelled, strconv.Itoa(next))

	s.phase = PhaseDone
	report.FinishedAt = time.Now()
	if cancelled {
		report.State = model.StateCancelled
		logger.Warn("search cancelled", "pages", len(report.Chunk.Pages))
	} else {
		report.State = model.StateCompleted
		logger.Info("search complete",
			"pages", len(report.Chunk.Pages),
			"tokens", report.Chunk.TotalTokens,
			"failed", len(report.FailedURLs),
		)
	}

	return report, nil
}

// drain flushes the packer into the aggregate chunk. A cancelled run
// keeps the continuation alive: more input remains, so the chunk points
// at the next unprocessed result.
func (s *SearchSession) drain(cancelled bool, cursor string) model.Chunk {
	c := s.packer.Flush()
	if c == nil {
		c = &model.Chunk{Pages: []model.PageRecord{}}
	}
	if cancelled {
		c.HasMore = true
		c.NextCursor = cursor
	}
	return *c
}
