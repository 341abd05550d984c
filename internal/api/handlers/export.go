package handlers

import (
	"fmt"
	"net/http"

	"github.com/gocarina/gocsv"
	"github.com/gorilla/mux"

	"github.com/wonny/leoscope/backend/internal/training"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// ExportHandler handles CSV export endpoints
type ExportHandler struct {
	manager *training.Manager
	logger  *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(mgr *training.Manager, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		manager: mgr,
		logger:  log,
	}
}

// ExportEpisodes streams a session's episodes as CSV
// GET /api/export/episodes/{id}.csv
func (h *ExportHandler) ExportEpisodes(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	episodes, err := h.manager.Episodes(id)
	if err != nil {
		respondSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="episodes-%s.csv"`, id))

	if err := gocsv.Marshal(episodes, w); err != nil {
		// Headers are already out; log instead of rewriting the response
		h.logger.WithError(err).WithField("session_id", id).Error("CSV export failed")
	}
}
