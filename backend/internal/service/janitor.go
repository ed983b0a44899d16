package service

import (
	"context"
	"time"

	"github.com/repospector/repospector/shared/logger"
	"github.com/repospector/repospector/shared/middleware/metrics"
)

type JanitorStorage interface {
	ReconcileInspectionCounts(ctx context.Context) (int64, error)
	DeleteExpiredResetTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// Janitor repairs drift left by best-effort counter updates and drops reset
// tokens past their validity window.
type Janitor struct {
	storage  JanitorStorage
	tokenTTL time.Duration
	now      func() time.Time
}

type JanitorStats struct {
	CountersFixed int64
	TokensPurged  int64
}

func NewJanitor(storage JanitorStorage, tokenTTL time.Duration) *Janitor {
	return &Janitor{storage: storage, tokenTTL: tokenTTL, now: time.Now}
}

// RunOnce performs both passes. The token purge runs even if reconciling fails.
func (j *Janitor) RunOnce(ctx context.Context) (JanitorStats, error) {
	var stats JanitorStats
	fixed, reconcileErr := j.storage.ReconcileInspectionCounts(ctx)
	if reconcileErr == nil {
		stats.CountersFixed = fixed
		metrics.CounterReconciled.Add(float64(fixed))
	}

	purged, err := j.storage.DeleteExpiredResetTokens(ctx, j.now().Add(-j.tokenTTL))
	if err != nil {
		return stats, err
	}
	stats.TokensPurged = purged
	return stats, reconcileErr
}

// StartBackground runs RunOnce every interval until ctx is done.
func (j *Janitor) StartBackground(ctx context.Context, interval time.Duration) {
	log := logger.Component("janitor")
	ticker := time.NewTicker(interval)
	log.Info("started", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats, err := j.RunOnce(ctx)
				if err != nil {
					log.Error("run failed", "error", err)
					continue
				}
				if stats.CountersFixed > 0 {
					log.Warn("corrected drifted inspection counters", "rows", stats.CountersFixed)
				}
				log.Debug("run completed", "counters_fixed", stats.CountersFixed, "tokens_purged", stats.TokensPurged)
			case <-ctx.Done():
				log.Info("stopped")
				return
			}
		}
	}()
}
