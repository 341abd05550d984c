package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/internal/metrics"
	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// Evaluator produces a decision trace from the current telemetry batch.
// Satisfied by decision.Service.
type Evaluator interface {
	Evaluate(ctx context.Context) (*contracts.DecisionTrace, error)
}

// Manager owns the lifecycle of training sessions and their runner
// goroutines. Sessions live in memory while active; the repository (when
// configured) mirrors state for the dashboard's history views.
// ⭐ SSOT: 세션 생명주기 관리는 여기서만
type Manager struct {
	evaluator Evaluator
	repo      *Repository
	collector *metrics.Collector
	logger    *logger.Logger
	cfg       config.TrainingConfig

	mu       sync.RWMutex
	sessions map[string]*contracts.TrainingSession
	episodes map[string][]contracts.Episode
	cancels  map[string]context.CancelFunc
	wg       sync.WaitGroup
	rng      *rand.Rand
}

// NewManager creates a session manager. repo may be nil; sessions are then
// held in memory only.
func NewManager(evaluator Evaluator, repo *Repository, collector *metrics.Collector, log *logger.Logger, cfg config.TrainingConfig) *Manager {
	return &Manager{
		evaluator: evaluator,
		repo:      repo,
		collector: collector,
		logger:    log,
		cfg:       cfg,
		sessions:  make(map[string]*contracts.TrainingSession),
		episodes:  make(map[string][]contracts.Episode),
		cancels:   make(map[string]context.CancelFunc),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateSession registers a new session in the created state.
// A nil hp uses the algorithm's defaults.
func (m *Manager) CreateSession(ctx context.Context, name string, algorithm contracts.Algorithm, totalEpisodes int, hp *contracts.Hyperparameters) (*contracts.TrainingSession, error) {
	if !contracts.ValidAlgorithm(string(algorithm)) {
		return nil, fmt.Errorf("unsupported algorithm: %q", algorithm)
	}
	if totalEpisodes <= 0 {
		totalEpisodes = m.cfg.DefaultEpisodes
	}

	params := DefaultHyperparameters(algorithm)
	if hp != nil {
		params = *hp
	}
	if err := ValidateHyperparameters(params); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.MaxSessions > 0 && len(m.sessions) >= m.cfg.MaxSessions {
		return nil, fmt.Errorf("session limit reached (%d)", m.cfg.MaxSessions)
	}

	session := &contracts.TrainingSession{
		ID:              uuid.New().String(),
		Name:            name,
		Algorithm:       algorithm,
		Status:          contracts.SessionCreated,
		Hyperparameters: params,
		TotalEpisodes:   totalEpisodes,
		CreatedAt:       time.Now().UTC(),
	}
	m.sessions[session.ID] = session
	m.persist(ctx, session)

	m.logger.WithFields(map[string]interface{}{
		"session_id": session.ID,
		"algorithm":  string(algorithm),
		"episodes":   totalEpisodes,
	}).Info("Training session created")

	return copySession(session), nil
}

// StartSession launches the runner goroutine for a created session
func (m *Manager) StartSession(ctx context.Context, id string) (*contracts.TrainingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, contracts.ErrSessionNotFound
	}
	if session.Status != contracts.SessionCreated {
		return nil, fmt.Errorf("%w: cannot start session in state %q",
			contracts.ErrInvalidTransition, session.Status)
	}

	now := time.Now().UTC()
	session.Status = contracts.SessionRunning
	session.StartedAt = &now

	runCtx, cancel := context.WithCancel(context.Background())
	m.cancels[id] = cancel
	m.persist(ctx, session)
	m.setRunningLocked()

	m.wg.Add(1)
	go m.run(runCtx, id)

	m.logger.WithField("session_id", id).Info("Training session started")

	return copySession(session), nil
}

// StopSession cancels a running session. The runner goroutine observes the
// cancellation and records the stopped state itself.
func (m *Manager) StopSession(id string) (*contracts.TrainingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, contracts.ErrSessionNotFound
	}
	if session.Status != contracts.SessionRunning {
		return nil, fmt.Errorf("%w: cannot stop session in state %q",
			contracts.ErrInvalidTransition, session.Status)
	}

	if cancel, ok := m.cancels[id]; ok {
		cancel()
	}

	return copySession(session), nil
}

// DeleteSession removes a session and its episodes. Running sessions must
// be stopped first.
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return contracts.ErrSessionNotFound
	}
	if session.Active() {
		return fmt.Errorf("%w: stop the session before deleting it",
			contracts.ErrInvalidTransition)
	}

	delete(m.sessions, id)
	delete(m.episodes, id)
	delete(m.cancels, id)

	if m.repo != nil {
		if err := m.repo.DeleteSession(ctx, id); err != nil {
			m.logger.WithError(err).WithField("session_id", id).Warn("Failed to delete persisted session")
		}
	}

	return nil
}

// GetSession returns a snapshot of one session
func (m *Manager) GetSession(id string) (*contracts.TrainingSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, contracts.ErrSessionNotFound
	}
	return copySession(session), nil
}

// ListSessions returns snapshots of all sessions, newest first
func (m *Manager) ListSessions() []*contracts.TrainingSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*contracts.TrainingSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, copySession(s))
	}
	sortSessionsByCreated(out)
	return out
}

// Episodes returns the recorded episodes of a session in order
func (m *Manager) Episodes(id string) ([]contracts.Episode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[id]; !ok {
		return nil, contracts.ErrSessionNotFound
	}
	eps := m.episodes[id]
	out := make([]contracts.Episode, len(eps))
	copy(out, eps)
	return out, nil
}

// Stats summarizes a session's episode rewards
func (m *Manager) Stats(id string) (contracts.EpisodeStats, error) {
	eps, err := m.Episodes(id)
	if err != nil {
		return contracts.EpisodeStats{}, err
	}
	return ComputeStats(eps), nil
}

// ReapStale deletes terminal sessions whose finish time is older than the
// configured retention. Called by the scheduler.
func (m *Manager) ReapStale(ctx context.Context) int {
	if m.cfg.StaleSessionAfter <= 0 {
		return 0
	}
	cutoff := time.Now().UTC().Add(-m.cfg.StaleSessionAfter)

	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.Terminal() && s.FinishedAt != nil && s.FinishedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		if err := m.DeleteSession(ctx, id); err != nil {
			m.logger.WithError(err).WithField("session_id", id).Warn("Failed to reap stale session")
		}
	}

	if len(stale) > 0 {
		m.logger.WithField("count", len(stale)).Info("Reaped stale training sessions")
	}
	return len(stale)
}

// Shutdown cancels all runners and waits for them to exit
func (m *Manager) Shutdown() {
	m.mu.Lock()
	for _, cancel := range m.cancels {
		cancel()
	}
	m.mu.Unlock()

	m.wg.Wait()
}

// run is the episode loop. Each tick evaluates the live candidate batch,
// applies an epsilon-greedy perturbation to the greedy choice and scores
// the outcome as a reward.
func (m *Manager) run(ctx context.Context, id string) {
	defer m.wg.Done()

	interval := m.cfg.EpisodeInterval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	session, err := m.GetSession(id)
	if err != nil {
		return
	}
	hp := session.Hyperparameters

	for episode := 1; episode <= session.TotalEpisodes; episode++ {
		select {
		case <-ctx.Done():
			m.finish(id, contracts.SessionStopped, "")
			return
		case <-time.After(interval):
		}

		trace, err := m.evaluator.Evaluate(ctx)
		if err != nil {
			if ctx.Err() != nil {
				m.finish(id, contracts.SessionStopped, "")
				return
			}
			m.logger.WithError(err).WithField("session_id", id).Error("Episode evaluation failed")
			m.finish(id, contracts.SessionFailed, err.Error())
			return
		}

		ep := m.scoreEpisode(id, episode, trace, hp)
		m.recordEpisode(ctx, id, episode, ep, string(session.Algorithm))
	}

	m.finish(id, contracts.SessionCompleted, "")
}

// scoreEpisode turns one decision trace into an episode outcome.
// Epsilon decays geometrically toward its floor; a handover succeeds when
// the (possibly exploratory) choice scores within tolerance of the greedy
// selection.
func (m *Manager) scoreEpisode(id string, episode int, trace *contracts.DecisionTrace, hp contracts.Hyperparameters) contracts.Episode {
	epsilon := hp.EpsilonEnd + (hp.EpsilonStart-hp.EpsilonEnd)*math.Pow(hp.EpsilonDecay, float64(episode))

	best := trace.Selected()

	m.mu.Lock()
	explore := m.rng.Float64() < epsilon
	var choiceIdx int
	if explore && len(trace.Steps) > 1 {
		choiceIdx = m.rng.Intn(len(trace.Steps))
	} else {
		for i, step := range trace.Steps {
			if step.IsFinalSelection {
				choiceIdx = i
				break
			}
		}
	}
	m.mu.Unlock()

	chosen := trace.Steps[choiceIdx].Candidate

	const handoverTolerance = 10.0
	handoverOK := best == nil || chosen.Score >= best.Candidate.Score-handoverTolerance

	reward := chosen.Score / 10.0
	if handoverOK {
		reward += 5.0
	} else {
		reward -= 5.0
	}

	return contracts.Episode{
		SessionID:   id,
		Number:      episode,
		Reward:      reward,
		Epsilon:     epsilon,
		SelectedID:  chosen.ID,
		Confidence:  trace.Confidence,
		Candidates:  len(trace.Steps),
		HandoverOK:  handoverOK,
		CompletedAt: time.Now().UTC(),
	}
}

func (m *Manager) recordEpisode(ctx context.Context, id string, episode int, ep contracts.Episode, algorithm string) {
	m.mu.Lock()
	m.episodes[id] = append(m.episodes[id], ep)
	if s, ok := m.sessions[id]; ok {
		s.CurrentEpisode = episode
	}
	m.mu.Unlock()

	m.collector.ObserveEpisodeReward(algorithm, ep.Reward)

	if m.repo != nil {
		if err := m.repo.SaveEpisode(ctx, &ep); err != nil {
			m.logger.WithError(err).Warn("Failed to persist episode")
		}
	}
}

// finish moves a session into a terminal state and releases its runner slot
func (m *Manager) finish(id string, status contracts.SessionStatus, errMsg string) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok && !session.Terminal() {
		now := time.Now().UTC()
		session.Status = status
		session.FinishedAt = &now
		session.Error = errMsg
	}
	delete(m.cancels, id)
	m.setRunningLocked()
	m.mu.Unlock()

	if ok {
		m.persist(context.Background(), session)
		m.logger.WithFields(map[string]interface{}{
			"session_id": id,
			"status":     string(status),
		}).Info("Training session finished")
	}
}

func (m *Manager) persist(ctx context.Context, s *contracts.TrainingSession) {
	if m.repo == nil {
		return
	}
	if err := m.repo.SaveSession(ctx, s); err != nil {
		m.logger.WithError(err).WithField("session_id", s.ID).Warn("Failed to persist session")
	}
}

// setRunningLocked refreshes the running-sessions gauge. Caller holds mu.
func (m *Manager) setRunningLocked() {
	m.collector.SetRunningSessions(len(m.cancels))
}

func copySession(s *contracts.TrainingSession) *contracts.TrainingSession {
	c := *s
	return &c
}

func sortSessionsByCreated(sessions []*contracts.TrainingSession) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
}
