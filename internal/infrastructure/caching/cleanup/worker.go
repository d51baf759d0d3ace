// Package cleanup provides the background cache eviction worker
package cleanup

import (
	"context"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/interfaces"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// Worker evicts expired cache sections on a fixed interval.
type Worker struct {
	cache    interfaces.Cache
	logger   *logging.ChanneledLogger
	interval time.Duration
}

// NewWorker creates a new cleanup worker
func NewWorker(cache interfaces.Cache, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:    cache,
		logger:   logger,
		interval: config.CleanupInterval,
	}
}

// Start begins the cleanup routine and blocks until the context is canceled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			start := time.Now()
			evicted := w.cache.EvictExpired()
			if evicted > 0 {
				w.logger.Cache().Info("Cache cleanup complete",
					"evicted", evicted, "duration", time.Since(start))
			}
		}
	}
}
