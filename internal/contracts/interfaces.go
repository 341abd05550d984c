package contracts

import (
	"context"
)

// MeasurementSource supplies candidate measurement batches.
// Live (ground station REST) and mock (synthetic SGP4-derived) sources are
// interchangeable behind this interface; the telemetry manager selects and
// substitutes between them, never the scoring core.
// ⭐ SSOT: 측정값 소스 인터페이스는 여기서만 정의
type MeasurementSource interface {
	// Name identifies the source ("live", "mock") for logs and cache keys
	Name() string

	// Fetch returns the current batch of visible candidates.
	// An empty batch with nil error is valid (no satellites in view).
	Fetch(ctx context.Context) ([]CandidateMeasurement, error)
}
