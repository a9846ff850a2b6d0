package ingest

import (
	"context"

	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/db/models"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/model"
)

// VideoSearcher discovers candidate videos for a search term. Implementations
// report the quota units spent alongside the result so a run can account for
// cost even on partial failure.
type VideoSearcher interface {
	Search(ctx context.Context, term string, maxResults int64) ([]model.CandidateVideo, int, error)
}

// StatsFetcher retrieves raw statistics for a batch of video IDs. IDs missing
// from the returned map must be treated as "skip, do not upsert".
type StatsFetcher interface {
	FetchStats(ctx context.Context, videoIDs []string) (map[string]model.RawStats, int, error)
}

// HighlightStore persists canonical records. Upsert reports true on insert.
type HighlightStore interface {
	Upsert(ctx context.Context, h *models.Highlight) (bool, error)
}

// QuotaRecorder tracks estimated API quota consumption.
type QuotaRecorder interface {
	IncrementQuota(ctx context.Context, quotaCost int, operation string) error
}
