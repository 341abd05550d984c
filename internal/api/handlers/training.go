package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/internal/training"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// TrainingHandler handles training session API endpoints
// ⭐ SSOT: 훈련 API 핸들러는 이 구조체에서만
type TrainingHandler struct {
	manager *training.Manager
	logger  *logger.Logger
}

// NewTrainingHandler creates a new training handler
func NewTrainingHandler(mgr *training.Manager, log *logger.Logger) *TrainingHandler {
	return &TrainingHandler{
		manager: mgr,
		logger:  log,
	}
}

// createSessionRequest is the POST body for session creation
type createSessionRequest struct {
	Name            string                     `json:"name"`
	Algorithm       string                     `json:"algorithm"`
	TotalEpisodes   int                        `json:"totalEpisodes"`
	Hyperparameters *contracts.Hyperparameters `json:"hyperparameters,omitempty"`
}

// CreateSession creates a new training session
// POST /api/training/sessions
func (h *TrainingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session payload")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Session name is required")
		return
	}

	session, err := h.manager.CreateSession(r.Context(), req.Name,
		contracts.Algorithm(req.Algorithm), req.TotalEpisodes, req.Hyperparameters)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// ListSessions lists sessions, optionally filtered by status
// GET /api/training/sessions?status=running
func (h *TrainingHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.manager.ListSessions()

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := sessions[:0]
		for _, s := range sessions {
			if string(s.Status) == status {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

// GetSession returns one session
// GET /api/training/sessions/{id}
func (h *TrainingHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.GetSession(mux.Vars(r)["id"])
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// StartSession launches a created session
// POST /api/training/sessions/{id}/start
func (h *TrainingHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.StartSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// StopSession cancels a running session
// POST /api/training/sessions/{id}/stop
func (h *TrainingHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.StopSession(mux.Vars(r)["id"])
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// DeleteSession removes a non-running session and its episodes
// DELETE /api/training/sessions/{id}
func (h *TrainingHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEpisodes returns a session's episodes in order
// GET /api/training/sessions/{id}/episodes
func (h *TrainingHandler) GetEpisodes(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	episodes, err := h.manager.Episodes(id)
	if err != nil {
		respondSessionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": id,
		"count":     len(episodes),
		"episodes":  episodes,
	})
}

// algorithmStats is one algorithm's aggregate row
type algorithmStats struct {
	Algorithm string                 `json:"algorithm"`
	Sessions  int                    `json:"sessions"`
	Stats     contracts.EpisodeStats `json:"stats"`
}

// GetStats returns aggregate episode stats grouped by algorithm
// GET /api/training/stats
func (h *TrainingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	grouped := make(map[contracts.Algorithm][]contracts.Episode)
	counts := make(map[contracts.Algorithm]int)

	for _, s := range h.manager.ListSessions() {
		eps, err := h.manager.Episodes(s.ID)
		if err != nil {
			continue
		}
		grouped[s.Algorithm] = append(grouped[s.Algorithm], eps...)
		counts[s.Algorithm]++
	}

	rows := make([]algorithmStats, 0, len(grouped))
	for _, alg := range []contracts.Algorithm{contracts.AlgorithmDQN, contracts.AlgorithmPPO, contracts.AlgorithmSAC} {
		eps, ok := grouped[alg]
		if !ok {
			continue
		}
		rows = append(rows, algorithmStats{
			Algorithm: string(alg),
			Sessions:  counts[alg],
			Stats:     training.ComputeStats(eps),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"algorithms": rows,
	})
}

func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contracts.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "Training session not found")
	case errors.Is(err, contracts.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
