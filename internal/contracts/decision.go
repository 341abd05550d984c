package contracts

import (
	"time"
)

// DecisionStep is one per-candidate evaluation step in a decision trace.
// StepIndex follows input order, not rank order, so UI playback replays the
// evaluation in the order candidates were observed.
type DecisionStep struct {
	StepIndex        int             `json:"stepIndex"`
	Candidate        ScoredCandidate `json:"candidate"`
	IsFinalSelection bool            `json:"isFinalSelection"`
}

// DecisionTrace is the ordered record of a full handover decision,
// consumed by the dashboard's step-by-step playback view.
// ⭐ SSOT: 핸드오버 결정 트레이스 타입은 여기서만 정의
type DecisionTrace struct {
	Steps      []DecisionStep `json:"steps"`
	SelectedID string         `json:"selectedId"`

	// Confidence is the top1−top2 score margin scaled to [0, 1].
	// A single-candidate trace has confidence 1.0 by convention.
	Confidence float64 `json:"confidence"`

	Weights   WeightConfig `json:"weights"`
	CreatedAt time.Time    `json:"createdAt,omitempty"`
}

// Selected returns the step marked as the final selection, or nil if the
// trace is malformed (never the case for traces built by decision.BuildTrace).
func (t *DecisionTrace) Selected() *DecisionStep {
	for i := range t.Steps {
		if t.Steps[i].IsFinalSelection {
			return &t.Steps[i]
		}
	}
	return nil
}

// CandidateCount returns the number of evaluated candidates
func (t *DecisionTrace) CandidateCount() int {
	return len(t.Steps)
}
