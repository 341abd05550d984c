package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/leoscope/backend/internal/decision"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// DecisionSnapshotJob evaluates the live candidate batch on a fixed cadence
// so the dashboard always has a recent trace even when no client triggers
// an evaluation.
// ⭐ SSOT: 주기적 결정 스냅샷은 이 Job에서만
type DecisionSnapshotJob struct {
	decisions *decision.Service
	logger    *logger.Logger
}

// NewDecisionSnapshotJob creates a new snapshot job
func NewDecisionSnapshotJob(svc *decision.Service, log *logger.Logger) *DecisionSnapshotJob {
	return &DecisionSnapshotJob{
		decisions: svc,
		logger:    log,
	}
}

// Name returns the job name
func (j *DecisionSnapshotJob) Name() string {
	return "decision_snapshot"
}

// Schedule returns the cron schedule (every 30 seconds)
func (j *DecisionSnapshotJob) Schedule() string {
	return "*/30 * * * * *"
}

// Run evaluates the current batch and persists the trace
func (j *DecisionSnapshotJob) Run(ctx context.Context) error {
	trace, err := j.decisions.Evaluate(ctx)
	if err != nil {
		return fmt.Errorf("evaluate snapshot: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"selected":   trace.SelectedID,
		"candidates": len(trace.Steps),
	}).Debug("Decision snapshot recorded")

	return nil
}
