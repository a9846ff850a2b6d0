package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/db"
)

// QuotaRepository records estimated YouTube API quota consumption per day so
// operators can see how close a credential is running to its daily ceiling.
type QuotaRepository interface {
	// IncrementQuota adds quotaCost units to today's usage for an operation.
	IncrementQuota(ctx context.Context, quotaCost int, operation string) error

	// GetUsageForDate returns the total units recorded for the given date.
	GetUsageForDate(ctx context.Context, date time.Time) (int64, error)
}

type quotaRepository struct {
	pool *pgxpool.Pool
}

// NewQuotaRepository creates a new QuotaRepository.
func NewQuotaRepository(pool *pgxpool.Pool) QuotaRepository {
	return &quotaRepository{pool: pool}
}

func (r *quotaRepository) IncrementQuota(ctx context.Context, quotaCost int, operation string) error {
	if operation == "" {
		operation = "other"
	}

	query := `
		INSERT INTO api_quota_usage (usage_date, operation, quota_used, updated_at)
		VALUES (CURRENT_DATE, $1, $2, now())
		ON CONFLICT (usage_date, operation) DO UPDATE
		SET quota_used = api_quota_usage.quota_used + EXCLUDED.quota_used,
		    updated_at = now()
	`
	if _, err := r.pool.Exec(ctx, query, operation, quotaCost); err != nil {
		return db.WrapError(err, "increment quota")
	}

	return nil
}

func (r *quotaRepository) GetUsageForDate(ctx context.Context, date time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quota_used), 0)
		FROM api_quota_usage
		WHERE usage_date = $1
	`

	var total int64
	if err := r.pool.QueryRow(ctx, query, date.Format("2006-01-02")).Scan(&total); err != nil {
		return 0, db.WrapError(err, "get quota usage")
	}

	return total, nil
}
