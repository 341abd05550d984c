package contracts

import (
	"time"
)

// Algorithm identifies a supported RL algorithm
type Algorithm string

const (
	AlgorithmDQN Algorithm = "dqn"
	AlgorithmPPO Algorithm = "ppo"
	AlgorithmSAC Algorithm = "sac"
)

// ValidAlgorithm reports whether s names a supported algorithm
func ValidAlgorithm(s string) bool {
	switch Algorithm(s) {
	case AlgorithmDQN, AlgorithmPPO, AlgorithmSAC:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of a training session
type SessionStatus string

const (
	SessionCreated   SessionStatus = "created"
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionStopped   SessionStatus = "stopped"
	SessionFailed    SessionStatus = "failed"
)

// Hyperparameters holds the tunable parameters of a training session.
// Ranges are enforced by Validate, not by the struct.
type Hyperparameters struct {
	LearningRate float64 `json:"learningRate" yaml:"learning_rate"`
	Gamma        float64 `json:"gamma" yaml:"gamma"`
	EpsilonStart float64 `json:"epsilonStart" yaml:"epsilon_start"`
	EpsilonEnd   float64 `json:"epsilonEnd" yaml:"epsilon_end"`
	EpsilonDecay float64 `json:"epsilonDecay" yaml:"epsilon_decay"`
	BatchSize    int     `json:"batchSize" yaml:"batch_size"`
}

// TrainingSession is one RL training run over the handover environment
// ⭐ SSOT: 훈련 세션 타입은 여기서만 정의
type TrainingSession struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Algorithm       Algorithm       `json:"algorithm"`
	Status          SessionStatus   `json:"status"`
	Hyperparameters Hyperparameters `json:"hyperparameters"`
	TotalEpisodes   int             `json:"totalEpisodes"`
	CurrentEpisode  int             `json:"currentEpisode"`
	CreatedAt       time.Time       `json:"createdAt"`
	StartedAt       *time.Time      `json:"startedAt,omitempty"`
	FinishedAt      *time.Time      `json:"finishedAt,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// Active reports whether the session still owns a runner goroutine
func (s *TrainingSession) Active() bool {
	return s.Status == SessionRunning
}

// Terminal reports whether the session reached a final state
func (s *TrainingSession) Terminal() bool {
	switch s.Status {
	case SessionCompleted, SessionStopped, SessionFailed:
		return true
	}
	return false
}

// Episode is one training episode's outcome
type Episode struct {
	SessionID   string    `json:"sessionId" csv:"session_id"`
	Number      int       `json:"number" csv:"episode"`
	Reward      float64   `json:"reward" csv:"reward"`
	Epsilon     float64   `json:"epsilon" csv:"epsilon"`
	SelectedID  string    `json:"selectedId" csv:"selected_id"`
	Confidence  float64   `json:"confidence" csv:"confidence"`
	Candidates  int       `json:"candidates" csv:"candidates"`
	HandoverOK  bool      `json:"handoverOk" csv:"handover_ok"`
	CompletedAt time.Time `json:"completedAt" csv:"completed_at"`
}

// EpisodeStats summarizes episode rewards for one session or algorithm
type EpisodeStats struct {
	Episodes    int     `json:"episodes"`
	MeanReward  float64 `json:"meanReward"`
	StdReward   float64 `json:"stdReward"`
	MinReward   float64 `json:"minReward"`
	MaxReward   float64 `json:"maxReward"`
	SuccessRate float64 `json:"successRate"`
}
