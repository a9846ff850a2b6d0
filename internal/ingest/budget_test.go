package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsageReader struct {
	mock.Mock
}

func (m *mockUsageReader) GetUsageForDate(ctx context.Context, date time.Time) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

func TestBudget_Remaining(t *testing.T) {
	tests := []struct {
		name             string
		dailyLimit       int
		thresholdPercent int
		used             int64
		want             int64
	}{
		{"fresh day", 10000, 90, 0, 9000},
		{"partially used", 10000, 90, 4000, 5000},
		{"at threshold", 10000, 90, 9000, 0},
		{"over threshold clamps to zero", 10000, 90, 9500, 0},
		{"defaults applied", 0, 0, 100, 8900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usage := new(mockUsageReader)
			usage.On("GetUsageForDate", mock.Anything, mock.Anything).Return(tt.used, nil)

			budget := NewBudget(usage, tt.dailyLimit, tt.thresholdPercent)
			remaining, err := budget.Remaining(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, remaining)
		})
	}
}

func TestBudget_Exhausted(t *testing.T) {
	t.Run("below threshold", func(t *testing.T) {
		usage := new(mockUsageReader)
		usage.On("GetUsageForDate", mock.Anything, mock.Anything).Return(int64(8999), nil)

		budget := NewBudget(usage, 10000, 90)
		exhausted, err := budget.Exhausted(context.Background())
		require.NoError(t, err)
		assert.False(t, exhausted)
	})

	t.Run("at threshold", func(t *testing.T) {
		usage := new(mockUsageReader)
		usage.On("GetUsageForDate", mock.Anything, mock.Anything).Return(int64(9000), nil)

		budget := NewBudget(usage, 10000, 90)
		exhausted, err := budget.Exhausted(context.Background())
		require.NoError(t, err)
		assert.True(t, exhausted)
	})

	t.Run("propagates read errors", func(t *testing.T) {
		usage := new(mockUsageReader)
		usage.On("GetUsageForDate", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection refused"))

		budget := NewBudget(usage, 10000, 90)
		_, err := budget.Exhausted(context.Background())
		assert.Error(t, err)
	})
}
