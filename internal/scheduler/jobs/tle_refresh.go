package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/leoscope/backend/internal/external/celestrak"
	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/logger"
	"github.com/wonny/leoscope/backend/pkg/redis"
)

// TLERefreshJob pulls the configured constellation's TLE set from CelesTrak
// once a day and caches it. Orbital elements age slowly; a daily pull keeps
// propagation error well under the handover geometry tolerance.
// ⭐ SSOT: TLE 갱신 스케줄은 이 Job에서만
type TLERefreshJob struct {
	client *celestrak.Client
	cache  *redis.Cache
	config *config.Config
	logger *logger.Logger
}

// NewTLERefreshJob creates a new TLE refresh job
func NewTLERefreshJob(client *celestrak.Client, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *TLERefreshJob {
	return &TLERefreshJob{
		client: client,
		cache:  cache,
		config: cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *TLERefreshJob) Name() string {
	return "tle_refresh"
}

// Schedule returns the cron schedule (daily at 03:00 UTC)
func (j *TLERefreshJob) Schedule() string {
	return "0 0 3 * * *"
}

// Run fetches and caches the TLE set
func (j *TLERefreshJob) Run(ctx context.Context) error {
	group := j.config.Celestrak.Group

	tles, err := j.client.FetchGroup(ctx, group)
	if err != nil {
		return fmt.Errorf("fetch TLE group %q: %w", group, err)
	}

	if j.cache != nil {
		if err := j.cache.Set(ctx, redis.TLEKey(group), tles, redis.TTLDaily); err != nil {
			return fmt.Errorf("cache TLE set: %w", err)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"group": group,
		"count": len(tles),
	}).Info("TLE set refreshed")

	return nil
}
