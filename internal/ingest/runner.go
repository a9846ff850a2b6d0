// Package ingest drives one full ingestion run: every configured search term
// through discovery, stats lookup, normalization, and upsert.
package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/metrics"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/normalize"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/youtube"
)

// TermStatus describes the outcome of one search term within a run.
type TermStatus string

const (
	TermStatusOK           TermStatus = "ok"
	TermStatusFailed       TermStatus = "failed"
	TermStatusNotAttempted TermStatus = "not_attempted"
)

// TermResult aggregates per-term counters for the run summary.
type TermResult struct {
	Term       string
	Status     TermStatus
	Candidates int
	Inserted   int
	Updated    int
	Skipped    int
	QuotaCost  int
	Err        error
}

// RunSummary reports the outcome of a complete run over all search terms,
// in configured term order.
type RunSummary struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	Terms     []TermResult
}

// Success reports whether every term completed without error.
func (s *RunSummary) Success() bool {
	for _, tr := range s.Terms {
		if tr.Status != TermStatusOK {
			return false
		}
	}
	return true
}

// TotalQuotaCost sums the estimated quota units spent across all terms.
func (s *RunSummary) TotalQuotaCost() int {
	total := 0
	for _, tr := range s.Terms {
		total += tr.QuotaCost
	}
	return total
}

// Config holds per-run tunables.
type Config struct {
	// MaxResultsPerTerm caps how many candidates one term may discover.
	MaxResultsPerTerm int64
	// Workers bounds how many terms run concurrently. The API rate limit is
	// enforced globally by the shared client limiter, not per worker.
	Workers int
}

// Runner orchestrates the ingestion pipeline for a set of search terms.
type Runner struct {
	searcher VideoSearcher
	stats    StatsFetcher
	store    HighlightStore
	quota    QuotaRecorder // optional
	cfg      Config
	log      *zap.Logger
}

// NewRunner wires the pipeline components. quota may be nil when usage
// tracking is disabled.
func NewRunner(searcher VideoSearcher, stats StatsFetcher, store HighlightStore, quota QuotaRecorder, cfg Config, log *zap.Logger) *Runner {
	if cfg.MaxResultsPerTerm <= 0 {
		cfg.MaxResultsPerTerm = 25
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{
		searcher: searcher,
		stats:    stats,
		store:    store,
		quota:    quota,
		cfg:      cfg,
		log:      log,
	}
}

// Run processes every term once and returns the run summary. Failures are
// isolated per term, except quota exhaustion: once the credential is out of
// quota, terms that have not started yet are reported as not attempted
// because further calls would fail identically.
func (r *Runner) Run(ctx context.Context, terms []string) *RunSummary {
	summary := &RunSummary{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Terms:     make([]TermResult, len(terms)),
	}

	log := r.log.With(zap.String("run_id", summary.RunID.String()))
	log.Info("run starting",
		zap.Int("terms", len(terms)),
		zap.Int("workers", r.cfg.Workers),
		zap.Int64("max_results_per_term", r.cfg.MaxResultsPerTerm),
	)

	var mu sync.Mutex
	seen := make(map[string]struct{})
	quotaExhausted := false

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)

	for i, term := range terms {
		g.Go(func() error {
			mu.Lock()
			exhausted := quotaExhausted
			mu.Unlock()

			if exhausted {
				summary.Terms[i] = TermResult{Term: term, Status: TermStatusNotAttempted}
				metrics.TermFailuresTotal.WithLabelValues("not_attempted").Inc()
				log.Warn("term not attempted, quota exhausted", zap.String("term", term))
				return nil
			}

			res := r.runTerm(ctx, log, term, seen, &mu)
			if res.Status == TermStatusFailed && youtube.IsQuotaExceeded(res.Err) {
				mu.Lock()
				quotaExhausted = true
				mu.Unlock()
			}
			summary.Terms[i] = res
			return nil
		})
	}
	g.Wait() //nolint:errcheck // term goroutines never return errors

	summary.Duration = time.Since(summary.StartedAt)
	log.Info("run completed",
		zap.Bool("success", summary.Success()),
		zap.Int("quota_cost", summary.TotalQuotaCost()),
		zap.Duration("duration", summary.Duration),
	)

	return summary
}

func (r *Runner) runTerm(ctx context.Context, log *zap.Logger, term string, seen map[string]struct{}, mu *sync.Mutex) TermResult {
	res := TermResult{Term: term, Status: TermStatusOK}
	log = log.With(zap.String("term", term))

	candidates, cost, err := r.searcher.Search(ctx, term, r.cfg.MaxResultsPerTerm)
	res.QuotaCost += cost
	r.recordQuota(ctx, cost, "search.list")
	if err != nil {
		log.Error("search failed", zap.Error(err))
		metrics.TermFailuresTotal.WithLabelValues(failReason(err)).Inc()
		res.Status = TermStatusFailed
		res.Err = err
		return res
	}
	res.Candidates = len(candidates)

	// Videos already claimed by an earlier term this run keep that term's
	// attribution and are not fetched again.
	var ids []string
	mu.Lock()
	for _, c := range candidates {
		if _, dup := seen[c.VideoID]; dup {
			continue
		}
		seen[c.VideoID] = struct{}{}
		ids = append(ids, c.VideoID)
	}
	mu.Unlock()

	if dupes := len(candidates) - len(ids); dupes > 0 {
		res.Skipped += dupes
		log.Debug("deduplicated candidates discovered by earlier terms", zap.Int("count", dupes))
	}
	if len(ids) == 0 {
		return res
	}

	stats, cost, err := r.stats.FetchStats(ctx, ids)
	res.QuotaCost += cost
	r.recordQuota(ctx, cost, "videos.list")
	if err != nil {
		log.Error("stats fetch failed", zap.Error(err))
		metrics.TermFailuresTotal.WithLabelValues(failReason(err)).Inc()
		res.Status = TermStatusFailed
		res.Err = err
		return res
	}

	for _, id := range ids {
		raw, ok := stats[id]
		if !ok {
			// Deleted or private since discovery.
			res.Skipped++
			metrics.RecordOutcome("skipped")
			log.Warn("no stats returned, skipping", zap.String("video_id", id))
			continue
		}

		h, err := normalize.Highlight(raw, term)
		if err != nil {
			res.Skipped++
			metrics.RecordOutcome("skipped")
			log.Warn("invalid video payload, skipping", zap.String("video_id", id), zap.Error(err))
			continue
		}

		inserted, err := r.store.Upsert(ctx, h)
		if err != nil {
			res.Skipped++
			metrics.RecordOutcome("skipped")
			log.Error("store write failed, skipping", zap.String("video_id", id), zap.Error(err))
			continue
		}

		if inserted {
			res.Inserted++
			metrics.RecordOutcome("inserted")
		} else {
			res.Updated++
			metrics.RecordOutcome("updated")
		}
	}

	log.Info("term completed",
		zap.Int("candidates", res.Candidates),
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
		zap.Int("quota_cost", res.QuotaCost),
	)

	return res
}

func (r *Runner) recordQuota(ctx context.Context, cost int, operation string) {
	if r.quota == nil || cost == 0 {
		return
	}
	if err := r.quota.IncrementQuota(ctx, cost, operation); err != nil {
		r.log.Warn("failed to record quota usage", zap.String("operation", operation), zap.Error(err))
	}
}

func failReason(err error) string {
	if youtube.IsQuotaExceeded(err) {
		return "quota_exceeded"
	}
	return "api_error"
}
