package telemetry

import (
	"context"

	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/internal/metrics"
	"github.com/wonny/leoscope/backend/pkg/logger"
	"github.com/wonny/leoscope/backend/pkg/redis"
)

// Mode selects how the manager combines its sources
type Mode string

const (
	ModeLive Mode = "live" // live only, errors surface to the caller
	ModeMock Mode = "mock" // mock only
	ModeAuto Mode = "auto" // live preferred, mock on failure
)

// Manager implements contracts.MeasurementSource by substituting between the
// live and mock sources. The decision core never knows which one served a
// batch; substitution policy lives entirely here.
// ⭐ SSOT: 측정값 소스 선택은 이 매니저에서만
type Manager struct {
	mode      Mode
	live      contracts.MeasurementSource
	mock      contracts.MeasurementSource
	cache     *redis.Cache
	collector *metrics.Collector
	logger    *logger.Logger
}

// NewManager creates a telemetry manager. live may be nil in ModeMock.
func NewManager(mode Mode, live, mock contracts.MeasurementSource, cache *redis.Cache, collector *metrics.Collector, log *logger.Logger) *Manager {
	return &Manager{
		mode:      mode,
		live:      live,
		mock:      mock,
		cache:     cache,
		collector: collector,
		logger:    log,
	}
}

// Name identifies the active mode
func (m *Manager) Name() string {
	return string(m.mode)
}

// Fetch returns the current candidate batch according to the configured mode
func (m *Manager) Fetch(ctx context.Context) ([]contracts.CandidateMeasurement, error) {
	switch m.mode {
	case ModeLive:
		return m.fetchFrom(ctx, m.live)

	case ModeMock:
		return m.fetchFrom(ctx, m.mock)

	default: // ModeAuto
		batch, err := m.fetchFrom(ctx, m.live)
		if err == nil {
			return batch, nil
		}

		m.collector.IncFallback(m.live.Name())
		m.logger.WithError(err).Warn("Live telemetry failed, falling back to mock source")

		return m.fetchFrom(ctx, m.mock)
	}
}

// fetchFrom fetches one batch and caches it as the source's last good batch
func (m *Manager) fetchFrom(ctx context.Context, source contracts.MeasurementSource) ([]contracts.CandidateMeasurement, error) {
	if source == nil {
		return nil, contracts.ErrNoMeasurements
	}

	batch, err := source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if m.cache != nil && len(batch) > 0 {
		if err := m.cache.Set(ctx, redis.MeasurementBatchKey(source.Name()), batch, redis.TTLShort); err != nil {
			m.logger.WithError(err).Debug("Failed to cache measurement batch")
		}
	}

	return batch, nil
}

// LastGoodBatch returns the cached batch for a source name, if any
func (m *Manager) LastGoodBatch(ctx context.Context, source string) ([]contracts.CandidateMeasurement, bool) {
	if m.cache == nil {
		return nil, false
	}

	var batch []contracts.CandidateMeasurement
	found, err := m.cache.Get(ctx, redis.MeasurementBatchKey(source), &batch)
	if err != nil || !found {
		return nil, false
	}
	return batch, true
}
