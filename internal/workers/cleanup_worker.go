package workers

import (
	"context"
	"time"

	"flightops/aerodata/internal/cache"
	"flightops/aerodata/internal/logging"
)

const cleanupInterval = 6 * time.Hour

// CacheCleanupWorker periodically purges cache rows too sparse to serve.
// Entries land below the completeness floor when an upstream response was
// nearly empty.
type CacheCleanupWorker struct {
	store    *cache.Store
	interval time.Duration
}

func NewCacheCleanupWorker(store *cache.Store) *CacheCleanupWorker {
	return &CacheCleanupWorker{
		store:    store,
		interval: cleanupInterval,
	}
}

func (w *CacheCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runCleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runCleanup(ctx)
		}
	}
}

func (w *CacheCleanupWorker) runCleanup(ctx context.Context) {
	removed, err := w.store.Cleanup(ctx)
	if err != nil {
		logging.Warn("Cache cleanup failed", "error", err.Error())
		return
	}
	if removed > 0 {
		logging.Info("Cache cleanup removed sparse entries", "removed", removed)
	}
}
