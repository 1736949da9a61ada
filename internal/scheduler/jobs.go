package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
)

// Pruner drops per-client state idle for longer than the given duration.
type Pruner interface {
	Prune(idle time.Duration) int
}

// ReseedJob regenerates the base dataset with the configured seed so the rolling
// window follows the clock, hands it to the default session and purges the cache.
func ReseedJob(
	datasets *service.DatasetService,
	sessions *service.SessionService,
	c cache.Cache,
	logger *zap.Logger,
) Job {
	return func(ctx context.Context) error {
		ds, err := datasets.Reseed(ctx, datasets.DefaultSeed())
		if err != nil {
			return err
		}
		sessions.ReplaceDefault(ds)

		purged, err := c.Purge(ctx)
		if err != nil {
			logger.Warn("failed to purge response cache", zap.Error(err))
		}
		logger.Info("base dataset reseeded",
			zap.String("version", ds.Version),
			zap.Int("rows", len(ds.Records)),
			zap.Int("purged", purged),
		)
		return nil
	}
}

// SweepJob evicts idle sessions and prunes rate limiter state idle for as long.
// A nil pruner is skipped.
func SweepJob(sessions *service.SessionService, pruner Pruner, idle time.Duration, logger *zap.Logger) Job {
	return func(context.Context) error {
		evicted := sessions.EvictIdle()
		pruned := 0
		if pruner != nil {
			pruned = pruner.Prune(idle)
		}
		if evicted > 0 || pruned > 0 {
			logger.Info("idle state swept",
				zap.Int("sessions_evicted", evicted),
				zap.Int("limiters_pruned", pruned),
				zap.Int("sessions_active", sessions.Count()),
			)
		}
		return nil
	}
}
