package jobs

import (
	"context"

	"github.com/wonny/leoscope/backend/internal/training"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// SessionReaperJob deletes terminal training sessions past their retention
// window so the session list stays bounded.
type SessionReaperJob struct {
	manager *training.Manager
	logger  *logger.Logger
}

// NewSessionReaperJob creates a new reaper job
func NewSessionReaperJob(mgr *training.Manager, log *logger.Logger) *SessionReaperJob {
	return &SessionReaperJob{
		manager: mgr,
		logger:  log,
	}
}

// Name returns the job name
func (j *SessionReaperJob) Name() string {
	return "session_reaper"
}

// Schedule returns the cron schedule (every 10 minutes)
func (j *SessionReaperJob) Schedule() string {
	return "0 */10 * * * *"
}

// Run reaps stale sessions
func (j *SessionReaperJob) Run(ctx context.Context) error {
	reaped := j.manager.ReapStale(ctx)
	if reaped > 0 {
		j.logger.WithField("count", reaped).Info("Stale sessions reaped")
	}
	return nil
}
