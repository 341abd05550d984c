package contracts

import (
	"time"
)

// CandidateMeasurement is one raw measurement for a visible candidate
// satellite, as delivered by a telemetry source.
// ⭐ SSOT: 후보 위성 측정값 타입은 여기서만 정의
//
// The five signal fields are pointers: telemetry is frequently partial and a
// missing field must degrade to its worst-case sentinel at the scoring
// boundary instead of failing the batch.
type CandidateMeasurement struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	NoradID  int    `json:"noradId,omitempty"`
	Observed time.Time `json:"observedAt,omitempty"`

	ElevationDeg   *float64 `json:"elevationDeg,omitempty"`   // [0, 90]
	RsrpDbm        *float64 `json:"rsrpDbm,omitempty"`        // typ. [-120, -40]
	RsrqDb         *float64 `json:"rsrqDb,omitempty"`         // typ. [-20, -3]
	LoadFactor     *float64 `json:"loadFactor,omitempty"`     // [0, 1], lower is better
	StabilityScore *float64 `json:"stabilityScore,omitempty"` // [0, 1], higher is better
}

// WeightConfig defines per-factor weights for the handover score.
// Weights should sum to 1.0 for the score to stay in [0, 100]; the scorer
// does not enforce this, callers that accept user input should Validate.
type WeightConfig struct {
	Elevation float64 `json:"elevation" yaml:"elevation"`
	Rsrp      float64 `json:"rsrp" yaml:"rsrp"`
	Rsrq      float64 `json:"rsrq" yaml:"rsrq"`
	Load      float64 `json:"load" yaml:"load"`
	Stability float64 `json:"stability" yaml:"stability"`
}

// Validate checks if weights sum to 1.0 (small floating point error allowed)
func (w *WeightConfig) Validate() bool {
	sum := w.Elevation + w.Rsrp + w.Rsrq + w.Load + w.Stability
	return sum >= 0.99 && sum <= 1.01
}

// DefaultWeightConfig returns the default weight configuration.
// Elevation and RSRP dominate: geometry and raw signal power are the
// strongest handover predictors at LEO pass timescales.
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		Elevation: 0.30,
		Rsrp:      0.25,
		Rsrq:      0.20,
		Load:      0.15,
		Stability: 0.10,
	}
	// Total: 100%
}

// Factor names used as keys in ScoredCandidate.NormalizedFactors
const (
	FactorElevation = "elevation"
	FactorRsrp      = "rsrp"
	FactorRsrq      = "rsrq"
	FactorLoad      = "load"
	FactorStability = "stability"
)

// ScoredCandidate is a candidate measurement with its normalized factors and
// weighted score attached. Immutable once computed.
type ScoredCandidate struct {
	CandidateMeasurement

	// NormalizedFactors maps factor name to its normalized value in [0, 1]
	NormalizedFactors map[string]float64 `json:"normalizedFactors"`

	// Score is the weighted sum scaled to [0, 100]
	Score float64 `json:"score"`
}

// Float64 is a helper for building optional measurement fields
func Float64(v float64) *float64 {
	return &v
}
