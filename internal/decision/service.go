package decision

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/internal/metrics"
	"github.com/wonny/leoscope/backend/pkg/logger"
	"github.com/wonny/leoscope/backend/pkg/redis"
)

// Service drives the evaluate-persist-cache cycle around the pure core.
// The active weight config is mutable controller state owned here, passed
// into the pure functions as an argument on every evaluation.
// ⭐ SSOT: 결정 서비스 조율은 여기서만
type Service struct {
	source    contracts.MeasurementSource
	repo      *Repository
	cache     *redis.Cache
	collector *metrics.Collector
	logger    *logger.Logger

	mu      sync.RWMutex
	weights contracts.WeightConfig
}

// NewService creates a decision service. repo and cache may be nil for
// ephemeral runs (the simulate command evaluates without persistence).
func NewService(source contracts.MeasurementSource, repo *Repository, cache *redis.Cache, collector *metrics.Collector, log *logger.Logger) *Service {
	return &Service{
		source:    source,
		repo:      repo,
		cache:     cache,
		collector: collector,
		logger:    log,
		weights:   contracts.DefaultWeightConfig(),
	}
}

// Weights returns the active weight config
func (s *Service) Weights() contracts.WeightConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}

// SetWeights replaces the active weight config. Weights from user-adjustable
// sliders must stay semantically meaningful, so the sum-to-1 check applies
// here at the boundary, not inside the pure core.
func (s *Service) SetWeights(w contracts.WeightConfig) error {
	if !w.Validate() {
		return fmt.Errorf("weights must sum to 1.0, got %.4f",
			w.Elevation+w.Rsrp+w.Rsrq+w.Load+w.Stability)
	}

	s.mu.Lock()
	s.weights = w
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"elevation": w.Elevation,
		"rsrp":      w.Rsrp,
		"rsrq":      w.Rsrq,
		"load":      w.Load,
		"stability": w.Stability,
	}).Info("Weight config updated")

	return nil
}

// Evaluate fetches the current candidate batch from the telemetry source,
// builds a decision trace and persists it.
func (s *Service) Evaluate(ctx context.Context) (*contracts.DecisionTrace, error) {
	measurements, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch measurements: %w", err)
	}

	return s.EvaluateBatch(ctx, measurements)
}

// EvaluateBatch builds and persists a decision trace for a supplied batch
func (s *Service) EvaluateBatch(ctx context.Context, measurements []contracts.CandidateMeasurement) (*contracts.DecisionTrace, error) {
	start := time.Now()

	trace, err := BuildTrace(measurements, s.Weights())
	if err != nil {
		return nil, err
	}
	trace.CreatedAt = time.Now().UTC()

	s.collector.ObserveEvaluation(time.Since(start), len(trace.Steps))

	if s.repo != nil {
		if err := s.repo.SaveTrace(ctx, trace); err != nil {
			// Persistence failure must not hide a valid decision from the UI
			s.logger.WithError(err).Warn("Failed to persist decision trace")
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.LatestTraceKey(), trace, redis.TTLMedium); err != nil {
			s.logger.WithError(err).Debug("Failed to cache decision trace")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"selected":   trace.SelectedID,
		"candidates": len(trace.Steps),
		"confidence": trace.Confidence,
	}).Debug("Decision trace built")

	return trace, nil
}

// LatestTrace returns the most recent trace, cache first, then database.
// Returns nil without error when nothing has been evaluated yet.
func (s *Service) LatestTrace(ctx context.Context) (*contracts.DecisionTrace, error) {
	if s.cache != nil {
		var trace contracts.DecisionTrace
		found, err := s.cache.Get(ctx, redis.LatestTraceKey(), &trace)
		if err == nil && found {
			return &trace, nil
		}
	}

	if s.repo == nil {
		return nil, nil
	}
	return s.repo.GetLatestTrace(ctx)
}

// RecentTraces returns up to limit persisted traces, newest first
func (s *Service) RecentTraces(ctx context.Context, limit int) ([]contracts.DecisionTrace, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.GetRecentTraces(ctx, limit)
}
