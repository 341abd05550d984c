package decision

import (
	"github.com/wonny/leoscope/backend/internal/contracts"
)

// BuildTrace aggregates a batch of measurements into a replayable decision
// trace: every candidate scored in input order, the maximum-scoring candidate
// selected, and a confidence derived from the top-2 score margin. The result
// depends only on the inputs; callers stamp CreatedAt when they persist.
//
// Returns contracts.ErrEmptyInput for an empty batch, the one structural
// failure in this core, distinct from per-field degradation in Score.
// ⭐ SSOT: 결정 트레이스 생성은 여기서만
func BuildTrace(measurements []contracts.CandidateMeasurement, weights contracts.WeightConfig) (*contracts.DecisionTrace, error) {
	if len(measurements) == 0 {
		return nil, contracts.ErrEmptyInput
	}

	steps := make([]contracts.DecisionStep, 0, len(measurements))

	// Steps preserve input order so UI playback matches observation order,
	// not rank order. Ties break to the first occurrence.
	bestIdx := 0
	for i, m := range measurements {
		scored := Score(m, weights)
		steps = append(steps, contracts.DecisionStep{
			StepIndex: i,
			Candidate: scored,
		})
		if scored.Score > steps[bestIdx].Candidate.Score {
			bestIdx = i
		}
	}
	steps[bestIdx].IsFinalSelection = true

	return &contracts.DecisionTrace{
		Steps:      steps,
		SelectedID: steps[bestIdx].Candidate.ID,
		Confidence: confidence(steps, bestIdx),
		Weights:    weights,
	}, nil
}

// confidence is the score margin between the winner and the runner-up,
// scaled to [0, 1]. A single candidate has no competitor, so confidence is
// maximal by convention.
func confidence(steps []contracts.DecisionStep, bestIdx int) float64 {
	if len(steps) < 2 {
		return 1.0
	}

	second := -1.0
	for i, s := range steps {
		if i == bestIdx {
			continue
		}
		if s.Candidate.Score > second {
			second = s.Candidate.Score
		}
	}

	return clamp((steps[bestIdx].Candidate.Score-second)/100.0, 0, 1)
}
