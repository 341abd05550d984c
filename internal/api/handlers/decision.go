package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/internal/decision"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// DecisionHandler handles decision trace API endpoints
// ⭐ SSOT: 결정 API 핸들러는 이 구조체에서만
type DecisionHandler struct {
	decisions *decision.Service
	logger    *logger.Logger
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(svc *decision.Service, log *logger.Logger) *DecisionHandler {
	return &DecisionHandler{
		decisions: svc,
		logger:    log,
	}
}

// GetWeights returns the active weight config
// GET /api/decision/weights
func (h *DecisionHandler) GetWeights(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.decisions.Weights())
}

// UpdateWeights replaces the active weight config
// PUT /api/decision/weights
func (h *DecisionHandler) UpdateWeights(w http.ResponseWriter, r *http.Request) {
	var weights contracts.WeightConfig
	if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid weight config payload")
		return
	}

	if err := h.decisions.SetWeights(weights); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, h.decisions.Weights())
}

// evaluateRequest is the optional POST body for an evaluation. When the
// body is empty the live telemetry source supplies the batch.
type evaluateRequest struct {
	Measurements []contracts.CandidateMeasurement `json:"measurements"`
}

// Evaluate scores a candidate batch and returns the decision trace
// POST /api/decision/evaluate
func (h *DecisionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var trace *contracts.DecisionTrace
	if len(body) == 0 {
		trace, err = h.decisions.Evaluate(ctx)
	} else {
		var req evaluateRequest
		if jsonErr := json.Unmarshal(body, &req); jsonErr != nil {
			respondError(w, http.StatusBadRequest, "Invalid evaluation payload")
			return
		}
		trace, err = h.decisions.EvaluateBatch(ctx, req.Measurements)
	}

	if err != nil {
		if errors.Is(err, contracts.ErrEmptyInput) {
			respondError(w, http.StatusUnprocessableEntity, "Candidate batch is empty")
			return
		}
		h.logger.WithError(err).Error("Evaluation failed")
		respondError(w, http.StatusServiceUnavailable, "Evaluation failed")
		return
	}

	respondJSON(w, http.StatusOK, trace)
}

// GetLatestTrace returns the most recent trace
// GET /api/decision/traces/latest
func (h *DecisionHandler) GetLatestTrace(w http.ResponseWriter, r *http.Request) {
	trace, err := h.decisions.LatestTrace(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest trace")
		respondError(w, http.StatusInternalServerError, "Failed to load latest trace")
		return
	}
	if trace == nil {
		respondError(w, http.StatusNotFound, "No trace recorded yet")
		return
	}

	respondJSON(w, http.StatusOK, trace)
}

// GetRecentTraces returns recent traces, newest first
// GET /api/decision/traces?limit=20
func (h *DecisionHandler) GetRecentTraces(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	traces, err := h.decisions.RecentTraces(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load recent traces")
		respondError(w, http.StatusInternalServerError, "Failed to load recent traces")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(traces),
		"traces": traces,
	})
}
