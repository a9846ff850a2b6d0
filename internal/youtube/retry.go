package youtube

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls backoff for transient API failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig retries three times, which rides out the short blips the
// Data API is prone to without stalling a run.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// withRetry runs fn up to MaxAttempts times with exponential backoff. Quota
// exhaustion and other non-transient errors return immediately.
func withRetry(ctx context.Context, rc RetryConfig, log *zap.Logger, op string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := classify(fn())
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return err
		}

		if attempt < rc.MaxAttempts {
			wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt-1)))
			if wait > rc.MaxWait {
				wait = rc.MaxWait
			}
			log.Warn("transient api error, retrying",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}
