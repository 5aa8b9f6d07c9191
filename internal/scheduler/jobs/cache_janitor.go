package jobs

import (
	"context"
	"errors"

	"github.com/wonny/rsystem/internal/cache"
	"github.com/wonny/rsystem/pkg/logger"
)

// CacheJanitorJob drops expired entries so idle keys do not pile up in memory
type CacheJanitorJob struct {
	purgers  []cache.Purger
	schedule string
	logger   *logger.Logger
}

// NewCacheJanitorJob creates a new cache janitor job
func NewCacheJanitorJob(purgers []cache.Purger, schedule string, log *logger.Logger) *CacheJanitorJob {
	if schedule == "" {
		schedule = "0 */5 * * * *"
	}
	return &CacheJanitorJob{
		purgers:  purgers,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *CacheJanitorJob) Name() string {
	return "cache_janitor"
}

// Schedule returns the cron schedule
func (j *CacheJanitorJob) Schedule() string {
	return j.schedule
}

// Run purges expired entries from every cache; one failing cache does not stop the rest
func (j *CacheJanitorJob) Run(ctx context.Context) error {
	var errs []error
	removed := 0

	for _, p := range j.purgers {
		n, err := p.PurgeExpired(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		removed += n
	}

	if removed > 0 {
		j.logger.WithField("removed", removed).Info("Cache janitor completed")
	}
	return errors.Join(errs...)
}
