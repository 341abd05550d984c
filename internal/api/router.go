package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/leoscope/backend/internal/api/handlers"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	satelliteHandler *handlers.SatelliteHandler,
	decisionHandler *handlers.DecisionHandler,
	trainingHandler *handlers.TrainingHandler,
	exportHandler *handlers.ExportHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Telemetry endpoints
	api.HandleFunc("/satellites/visible", satelliteHandler.GetVisible).Methods("GET")
	api.HandleFunc("/satellites/search", satelliteHandler.Search).Methods("GET")

	// Decision endpoints
	api.HandleFunc("/decision/weights", decisionHandler.GetWeights).Methods("GET")
	api.HandleFunc("/decision/weights", decisionHandler.UpdateWeights).Methods("PUT")
	api.HandleFunc("/decision/evaluate", decisionHandler.Evaluate).Methods("POST")
	api.HandleFunc("/decision/traces/latest", decisionHandler.GetLatestTrace).Methods("GET")
	api.HandleFunc("/decision/traces", decisionHandler.GetRecentTraces).Methods("GET")

	// Training endpoints
	api.HandleFunc("/training/sessions", trainingHandler.CreateSession).Methods("POST")
	api.HandleFunc("/training/sessions", trainingHandler.ListSessions).Methods("GET")
	api.HandleFunc("/training/sessions/{id}", trainingHandler.GetSession).Methods("GET")
	api.HandleFunc("/training/sessions/{id}", trainingHandler.DeleteSession).Methods("DELETE")
	api.HandleFunc("/training/sessions/{id}/start", trainingHandler.StartSession).Methods("POST")
	api.HandleFunc("/training/sessions/{id}/stop", trainingHandler.StopSession).Methods("POST")
	api.HandleFunc("/training/sessions/{id}/episodes", trainingHandler.GetEpisodes).Methods("GET")
	api.HandleFunc("/training/stats", trainingHandler.GetStats).Methods("GET")

	// Export endpoints
	api.HandleFunc("/export/episodes/{id}.csv", exportHandler.ExportEpisodes).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(corsMiddleware)

	return r
}

// corsMiddleware allows the dashboard frontend to call from another origin
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "leoscope-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
