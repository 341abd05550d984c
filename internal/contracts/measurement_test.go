package contracts

import (
	"encoding/json"
	"testing"
)

func TestWeightConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights WeightConfig
		want    bool
	}{
		{
			name:    "default weights sum to 1.0",
			weights: DefaultWeightConfig(),
			want:    true,
		},
		{
			name: "weights summing above 1.0",
			weights: WeightConfig{
				Elevation: 0.5,
				Rsrp:      0.5,
				Rsrq:      0.5,
				Load:      0.0,
				Stability: 0.0,
			},
			want: false,
		},
		{
			name:    "zero weights",
			weights: WeightConfig{},
			want:    false,
		},
		{
			name: "small floating point error allowed",
			weights: WeightConfig{
				Elevation: 0.30,
				Rsrp:      0.25,
				Rsrq:      0.20,
				Load:      0.15,
				Stability: 0.099,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.weights.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidateMeasurement_PartialJSON(t *testing.T) {
	// A payload missing rsrpDbm must decode to a nil pointer, the scorer's
	// signal for sentinel substitution
	payload := `{"id":"SAT-1","elevationDeg":52.1,"rsrqDb":-10,"loadFactor":0.7,"stabilityScore":0.91}`

	var m CandidateMeasurement
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if m.ID != "SAT-1" {
		t.Errorf("ID = %q, want SAT-1", m.ID)
	}
	if m.RsrpDbm != nil {
		t.Errorf("RsrpDbm = %v, want nil for missing field", *m.RsrpDbm)
	}
	if m.ElevationDeg == nil || *m.ElevationDeg != 52.1 {
		t.Errorf("ElevationDeg = %v, want 52.1", m.ElevationDeg)
	}
}
