package workers

import (
	"context"

	"flightops/aerodata/internal/cache"
)

type WorkersContainer struct {
	CacheCleaner *CacheCleanupWorker
}

func InitWorkers(ctx context.Context, store *cache.Store) *WorkersContainer {
	cleaner := NewCacheCleanupWorker(store)

	go cleaner.Start(ctx)

	return &WorkersContainer{
		CacheCleaner: cleaner,
	}
}
