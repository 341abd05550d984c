package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

// Scenario is a named preset bundling a weight profile, telemetry mode and
// training setup. Presets drive the simulate and train commands and the
// dashboard's one-click experiment setups.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Telemetry TelemetrySpec          `yaml:"telemetry"`
	Weights   contracts.WeightConfig `yaml:"weights"`
	Training  TrainingSpec           `yaml:"training"`
}

// TelemetrySpec selects the measurement source for a scenario
type TelemetrySpec struct {
	Mode string `yaml:"mode"`
	Seed int64  `yaml:"seed"`
}

// TrainingSpec configures the training run a scenario launches
type TrainingSpec struct {
	Algorithm       string                     `yaml:"algorithm"`
	Episodes        int                        `yaml:"episodes"`
	Hyperparameters *contracts.Hyperparameters `yaml:"hyperparameters,omitempty"`
}

// Load reads and validates a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates scenario YAML
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario for semantic errors
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}

	switch s.Telemetry.Mode {
	case "", "live", "mock", "auto":
	default:
		return fmt.Errorf("unknown telemetry mode: %q", s.Telemetry.Mode)
	}

	if !s.Weights.Validate() {
		return fmt.Errorf("scenario %q: weights must sum to 1.0", s.Name)
	}

	if s.Training.Algorithm != "" && !contracts.ValidAlgorithm(s.Training.Algorithm) {
		return fmt.Errorf("scenario %q: unsupported algorithm %q", s.Name, s.Training.Algorithm)
	}
	if s.Training.Episodes < 0 {
		return fmt.Errorf("scenario %q: episodes must not be negative", s.Name)
	}

	return nil
}

// Default returns the built-in baseline scenario: mock telemetry, default
// weights, a short DQN run.
func Default() *Scenario {
	return &Scenario{
		Name:        "baseline",
		Description: "Mock constellation with default weights and a short DQN run",
		Telemetry:   TelemetrySpec{Mode: "mock", Seed: 42},
		Weights:     contracts.DefaultWeightConfig(),
		Training:    TrainingSpec{Algorithm: "dqn", Episodes: 50},
	}
}
