package decision

import (
	"math"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

// Worst-case sentinel values substituted for missing or NaN fields.
// A monitoring tool must keep rendering something useful with partial
// telemetry, so malformed input degrades instead of failing.
const (
	sentinelElevationDeg   = 0.0
	sentinelRsrpDbm        = -120.0
	sentinelRsrqDb         = -20.0
	sentinelLoadFactor     = 1.0
	sentinelStabilityScore = 0.0
)

// Score converts one raw measurement into a normalized, weighted score.
// Pure and deterministic; missing fields degrade to worst-case sentinels and
// the normalization clamps absorb any out-of-range input.
// ⭐ SSOT: 핸드오버 점수 공식은 여기서만
func Score(m contracts.CandidateMeasurement, w contracts.WeightConfig) contracts.ScoredCandidate {
	elevation := fieldOrSentinel(m.ElevationDeg, sentinelElevationDeg)
	rsrp := fieldOrSentinel(m.RsrpDbm, sentinelRsrpDbm)
	rsrq := fieldOrSentinel(m.RsrqDb, sentinelRsrqDb)
	load := fieldOrSentinel(m.LoadFactor, sentinelLoadFactor)
	stability := fieldOrSentinel(m.StabilityScore, sentinelStabilityScore)

	// Fixed normalization formulas; reproduced exactly so scores stay
	// comparable across algorithm runs
	factors := map[string]float64{
		contracts.FactorElevation: clamp(elevation/90.0, 0, 1),
		contracts.FactorRsrp:      clamp((rsrp+120.0)/40.0, 0, 1),
		contracts.FactorRsrq:      clamp((rsrq+20.0)/10.0, 0, 1),
		contracts.FactorLoad:      clamp(1.0-load, 0, 1), // lower load is better
		contracts.FactorStability: clamp(stability, 0, 1),
	}

	score := 100.0 * (factors[contracts.FactorElevation]*w.Elevation +
		factors[contracts.FactorRsrp]*w.Rsrp +
		factors[contracts.FactorRsrq]*w.Rsrq +
		factors[contracts.FactorLoad]*w.Load +
		factors[contracts.FactorStability]*w.Stability)

	return contracts.ScoredCandidate{
		CandidateMeasurement: m,
		NormalizedFactors:    factors,
		Score:                score,
	}
}

// fieldOrSentinel centralizes the missing-value policy: nil and NaN both
// degrade to the factor's worst case
func fieldOrSentinel(v *float64, sentinel float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return sentinel
	}
	return *v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
