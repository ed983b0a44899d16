package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitorRunOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("both passes", func(t *testing.T) {
		var cutoff time.Time
		storage := &MockStorage{
			ReconcileInspectionCountsFunc: func(context.Context) (int64, error) { return 3, nil },
			DeleteExpiredResetTokensFunc: func(ctx context.Context, c time.Time) (int64, error) {
				cutoff = c
				return 5, nil
			},
		}
		j := NewJanitor(storage, time.Hour)
		j.now = func() time.Time { return now }

		stats, err := j.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, JanitorStats{CountersFixed: 3, TokensPurged: 5}, stats)
		assert.Equal(t, now.Add(-time.Hour), cutoff)
	})

	t.Run("purge still runs when reconcile fails", func(t *testing.T) {
		purged := false
		storage := &MockStorage{
			ReconcileInspectionCountsFunc: func(context.Context) (int64, error) { return 0, errors.New("boom") },
			DeleteExpiredResetTokensFunc: func(context.Context, time.Time) (int64, error) {
				purged = true
				return 1, nil
			},
		}
		stats, err := NewJanitor(storage, time.Hour).RunOnce(ctx)
		assert.Error(t, err)
		assert.True(t, purged)
		assert.Equal(t, int64(1), stats.TokensPurged)
	})
}

func TestJanitorStartBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 10)
	storage := &MockStorage{ReconcileInspectionCountsFunc: func(context.Context) (int64, error) {
		select {
		case runs <- struct{}{}:
		default:
		}
		return 0, nil
	}}
	NewJanitor(storage, time.Hour).StartBackground(ctx, 10*time.Millisecond)

	select {
	case <-runs:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor never ran")
	}
}
