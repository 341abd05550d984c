package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/leoscope/backend/internal/external/celestrak"
	"github.com/wonny/leoscope/backend/internal/telemetry"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// CatalogSearcher looks up satellites by name in an external catalog
type CatalogSearcher interface {
	SearchCatalog(ctx context.Context, name string) ([]celestrak.CatalogEntry, error)
}

// SatelliteHandler handles candidate telemetry API endpoints
// ⭐ SSOT: 위성 조회 API 핸들러는 이 구조체에서만
type SatelliteHandler struct {
	telemetry *telemetry.Manager
	catalog   CatalogSearcher
	logger    *logger.Logger
}

// NewSatelliteHandler creates a new satellite handler. catalog may be nil
// when no external catalog is configured.
func NewSatelliteHandler(mgr *telemetry.Manager, catalog CatalogSearcher, log *logger.Logger) *SatelliteHandler {
	return &SatelliteHandler{
		telemetry: mgr,
		catalog:   catalog,
		logger:    log,
	}
}

// GetVisible returns the current candidate batch
// GET /api/satellites/visible
func (h *SatelliteHandler) GetVisible(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	measurements, err := h.telemetry.Fetch(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch telemetry")
		respondError(w, http.StatusServiceUnavailable, "No telemetry available")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"source":       h.telemetry.Name(),
		"count":        len(measurements),
		"measurements": measurements,
		"fetchedAt":    time.Now().UTC(),
	})
}

// Search looks up satellites by name in the external catalog
// GET /api/satellites/search?name=STARLINK
func (h *SatelliteHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Query parameter 'name' is required")
		return
	}

	if h.catalog == nil {
		respondError(w, http.StatusServiceUnavailable, "Catalog search is not configured")
		return
	}

	entries, err := h.catalog.SearchCatalog(r.Context(), name)
	if err != nil {
		h.logger.WithError(err).Error("Catalog search failed")
		respondError(w, http.StatusBadGateway, "Catalog lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   name,
		"count":   len(entries),
		"results": entries,
	})
}
