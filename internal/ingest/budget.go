package ingest

import (
	"context"
	"fmt"
	"time"
)

// UsageReader reports recorded quota consumption for a calendar day.
type UsageReader interface {
	GetUsageForDate(ctx context.Context, date time.Time) (int64, error)
}

// Budget guards runs against the daily API quota. A run that starts near the
// limit would burn its remaining units on searches whose videos it can never
// stat-fetch, so the check happens before any term runs.
type Budget struct {
	usage            UsageReader
	dailyLimit       int
	thresholdPercent int
}

// NewBudget creates a budget guard. The YouTube Data API default allowance is
// 10000 units per day; thresholdPercent leaves headroom for other consumers
// of the same credential.
func NewBudget(usage UsageReader, dailyLimit int, thresholdPercent int) *Budget {
	if dailyLimit <= 0 {
		dailyLimit = 10000
	}
	if thresholdPercent <= 0 || thresholdPercent > 100 {
		thresholdPercent = 90
	}

	return &Budget{
		usage:            usage,
		dailyLimit:       dailyLimit,
		thresholdPercent: thresholdPercent,
	}
}

func (b *Budget) threshold() int64 {
	return int64(b.dailyLimit) * int64(b.thresholdPercent) / 100
}

// Remaining returns how many quota units today's runs may still spend before
// hitting the threshold.
func (b *Budget) Remaining(ctx context.Context) (int64, error) {
	used, err := b.usage.GetUsageForDate(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to read quota usage: %w", err)
	}

	remaining := b.threshold() - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Exhausted reports whether recorded usage has reached the threshold.
func (b *Budget) Exhausted(ctx context.Context) (bool, error) {
	used, err := b.usage.GetUsageForDate(ctx, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to read quota usage: %w", err)
	}
	return used >= b.threshold(), nil
}
