package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func apiError(code int, reason string) *googleapi.Error {
	err := &googleapi.Error{Code: code}
	if reason != "" {
		err.Errors = []googleapi.ErrorItem{{Reason: reason}}
	}
	return err
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.NoError(t, classify(nil))

	assert.ErrorIs(t, classify(apiError(403, "quotaExceeded")), ErrQuotaExceeded)
	assert.ErrorIs(t, classify(apiError(403, "dailyLimitExceeded")), ErrQuotaExceeded)

	// 403 for other reasons is not quota exhaustion.
	forbidden := apiError(403, "forbidden")
	assert.NotErrorIs(t, classify(forbidden), ErrQuotaExceeded)

	// Wrapped API errors still classify.
	wrapped := fmt.Errorf("call failed: %w", apiError(403, "quotaExceeded"))
	assert.ErrorIs(t, classify(wrapped), ErrQuotaExceeded)

	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"quota exceeded", ErrQuotaExceeded, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"429", apiError(http.StatusTooManyRequests, ""), true},
		{"500", apiError(http.StatusInternalServerError, ""), true},
		{"502", apiError(http.StatusBadGateway, ""), true},
		{"503", apiError(http.StatusServiceUnavailable, ""), true},
		{"504", apiError(http.StatusGatewayTimeout, ""), true},
		{"400", apiError(http.StatusBadRequest, ""), false},
		{"404", apiError(http.StatusNotFound, ""), false},
		{"403 rate limited", apiError(http.StatusForbidden, "rateLimitExceeded"), true},
		{"403 user rate limited", apiError(http.StatusForbidden, "userRateLimitExceeded"), true},
		{"403 forbidden", apiError(http.StatusForbidden, "forbidden"), false},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"dns failure", &net.DNSError{Err: "no such host"}, true},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}
