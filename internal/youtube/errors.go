package youtube

import (
	"context"
	"errors"
	"net"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrQuotaExceeded signals that the daily API quota for the credential is
// exhausted. It is never retried within a run; quota resets on Google's
// schedule, not ours.
var ErrQuotaExceeded = errors.New("youtube: api quota exceeded")

// IsQuotaExceeded reports whether err indicates credential-wide quota
// exhaustion.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// classify maps API errors onto the pipeline's taxonomy: quota exhaustion
// becomes ErrQuotaExceeded, everything else passes through for the retry
// policy to inspect.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusForbidden {
		for _, item := range apiErr.Errors {
			switch item.Reason {
			case "quotaExceeded", "dailyLimitExceeded":
				return ErrQuotaExceeded
			}
		}
	}

	return err
}

// isTransient reports whether err is worth retrying: 429/5xx responses,
// per-user rate limiting, timeouts, and connection-level failures.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, ErrQuotaExceeded) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	// A deadline on the per-call timeout context counts as a transient
	// failure; the surrounding run context is checked by the retry loop.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		case http.StatusForbidden:
			for _, item := range apiErr.Errors {
				switch item.Reason {
				case "rateLimitExceeded", "userRateLimitExceeded":
					return true
				}
			}
		}
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
