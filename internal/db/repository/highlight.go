package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/db"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/db/models"
)

// QueryFilters narrows a highlight query. Zero values mean "no filter".
type QueryFilters struct {
	PublishedAfter  *time.Time
	PublishedBefore *time.Time
	MinViewCount    int64
	Limit           int
}

// HighlightRepository defines operations for persisting highlight videos.
type HighlightRepository interface {
	// Upsert inserts a new highlight or refreshes the mutable fields of an
	// existing one. It reports true when a new row was inserted. The
	// insert-or-update decision is a single atomic statement, so concurrent
	// runs cannot create duplicate rows for the same video_id.
	Upsert(ctx context.Context, h *models.Highlight) (bool, error)

	// GetByID retrieves a single highlight by video ID.
	GetByID(ctx context.Context, videoID string) (*models.Highlight, error)

	// Query retrieves highlights matching the filters, ordered by view count
	// descending with a stable video_id tie-break.
	Query(ctx context.Context, filters QueryFilters) ([]*models.Highlight, error)

	// Count returns the number of persisted highlights.
	Count(ctx context.Context) (int64, error)
}

type highlightRepository struct {
	pool *pgxpool.Pool
}

// NewHighlightRepository creates a new HighlightRepository.
func NewHighlightRepository(pool *pgxpool.Pool) HighlightRepository {
	return &highlightRepository{pool: pool}
}

func (r *highlightRepository) Upsert(ctx context.Context, h *models.Highlight) (bool, error) {
	// search_term, first_seen_at, and published_at keep their original values
	// on conflict: attribution belongs to the first discovery. xmax = 0 holds
	// only for freshly inserted rows.
	query := `
		INSERT INTO highlights (video_id, title, channel_name, published_at, view_count, search_term, first_seen_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (video_id) DO UPDATE
		SET title = EXCLUDED.title,
		    channel_name = EXCLUDED.channel_name,
		    view_count = EXCLUDED.view_count,
		    last_updated_at = EXCLUDED.last_updated_at
		RETURNING (xmax = 0), search_term, published_at, first_seen_at, last_updated_at
	`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		h.VideoID,
		h.Title,
		h.ChannelName,
		h.PublishedAt,
		h.ViewCount,
		h.SearchTerm,
		h.FirstSeenAt,
		h.LastUpdatedAt,
	).Scan(
		&inserted,
		&h.SearchTerm,
		&h.PublishedAt,
		&h.FirstSeenAt,
		&h.LastUpdatedAt,
	)

	if err != nil {
		return false, db.WrapError(err, "upsert highlight")
	}

	return inserted, nil
}

func (r *highlightRepository) GetByID(ctx context.Context, videoID string) (*models.Highlight, error) {
	query := `
		SELECT video_id, title, channel_name, published_at, view_count, search_term, first_seen_at, last_updated_at
		FROM highlights
		WHERE video_id = $1
	`

	h := &models.Highlight{}
	err := r.pool.QueryRow(ctx, query, videoID).Scan(
		&h.VideoID,
		&h.Title,
		&h.ChannelName,
		&h.PublishedAt,
		&h.ViewCount,
		&h.SearchTerm,
		&h.FirstSeenAt,
		&h.LastUpdatedAt,
	)

	if err != nil {
		return nil, db.WrapError(err, "get highlight by id")
	}

	return h, nil
}

func (r *highlightRepository) Query(ctx context.Context, filters QueryFilters) ([]*models.Highlight, error) {
	query := `
		SELECT video_id, title, channel_name, published_at, view_count, search_term, first_seen_at, last_updated_at
		FROM highlights
		WHERE view_count >= $1
	`
	args := []any{filters.MinViewCount}

	if filters.PublishedAfter != nil {
		args = append(args, *filters.PublishedAfter)
		query += fmt.Sprintf(" AND published_at >= $%d", len(args))
	}
	if filters.PublishedBefore != nil {
		args = append(args, *filters.PublishedBefore)
		query += fmt.Sprintf(" AND published_at <= $%d", len(args))
	}

	query += " ORDER BY view_count DESC, video_id ASC"

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, db.WrapError(err, "query highlights")
	}
	defer rows.Close()

	return scanHighlights(rows)
}

func (r *highlightRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM highlights`).Scan(&count); err != nil {
		return 0, db.WrapError(err, "count highlights")
	}
	return count, nil
}

func scanHighlights(rows pgx.Rows) ([]*models.Highlight, error) {
	var highlights []*models.Highlight

	for rows.Next() {
		h := &models.Highlight{}
		err := rows.Scan(
			&h.VideoID,
			&h.Title,
			&h.ChannelName,
			&h.PublishedAt,
			&h.ViewCount,
			&h.SearchTerm,
			&h.FirstSeenAt,
			&h.LastUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan highlight: %w", err)
		}
		highlights = append(highlights, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate highlights: %w", err)
	}

	return highlights, nil
}
