package training

import (
	"fmt"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

// DefaultHyperparameters returns the tuned defaults for an algorithm.
// PPO and SAC do not use an epsilon schedule; their exploration is
// policy-driven, so epsilon stays flat at the floor value.
func DefaultHyperparameters(alg contracts.Algorithm) contracts.Hyperparameters {
	switch alg {
	case contracts.AlgorithmPPO:
		return contracts.Hyperparameters{
			LearningRate: 0.0003,
			Gamma:        0.99,
			EpsilonStart: 0.05,
			EpsilonEnd:   0.05,
			EpsilonDecay: 1.0,
			BatchSize:    64,
		}
	case contracts.AlgorithmSAC:
		return contracts.Hyperparameters{
			LearningRate: 0.0003,
			Gamma:        0.99,
			EpsilonStart: 0.05,
			EpsilonEnd:   0.05,
			EpsilonDecay: 1.0,
			BatchSize:    256,
		}
	default: // DQN
		return contracts.Hyperparameters{
			LearningRate: 0.001,
			Gamma:        0.99,
			EpsilonStart: 1.0,
			EpsilonEnd:   0.05,
			EpsilonDecay: 0.995,
			BatchSize:    32,
		}
	}
}

// ValidateHyperparameters rejects values outside their meaningful ranges
func ValidateHyperparameters(h contracts.Hyperparameters) error {
	if h.LearningRate <= 0 || h.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1], got %g", h.LearningRate)
	}
	if h.Gamma <= 0 || h.Gamma > 1 {
		return fmt.Errorf("gamma must be in (0, 1], got %g", h.Gamma)
	}
	if h.EpsilonStart < 0 || h.EpsilonStart > 1 {
		return fmt.Errorf("epsilon start must be in [0, 1], got %g", h.EpsilonStart)
	}
	if h.EpsilonEnd < 0 || h.EpsilonEnd > h.EpsilonStart {
		return fmt.Errorf("epsilon end must be in [0, epsilon start], got %g", h.EpsilonEnd)
	}
	if h.EpsilonDecay <= 0 || h.EpsilonDecay > 1 {
		return fmt.Errorf("epsilon decay must be in (0, 1], got %g", h.EpsilonDecay)
	}
	if h.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", h.BatchSize)
	}
	return nil
}
