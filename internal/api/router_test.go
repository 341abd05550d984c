package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/leoscope/backend/internal/api/handlers"
	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/internal/decision"
	"github.com/wonny/leoscope/backend/internal/external/celestrak"
	"github.com/wonny/leoscope/backend/internal/telemetry"
	"github.com/wonny/leoscope/backend/internal/training"
	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

func f(v float64) *float64 { return &v }

type fixedSource struct {
	batch []contracts.CandidateMeasurement
}

func (s *fixedSource) Name() string { return "mock" }

func (s *fixedSource) Fetch(ctx context.Context) ([]contracts.CandidateMeasurement, error) {
	return s.batch, nil
}

func testBatch() []contracts.CandidateMeasurement {
	return []contracts.CandidateMeasurement{
		{
			ID: "SAT-44713", Name: "STARLINK-1007",
			ElevationDeg: f(55), RsrpDbm: f(-85), RsrqDb: f(-9),
			LoadFactor: f(0.4), StabilityScore: f(0.8),
		},
		{
			ID: "SAT-44714", Name: "STARLINK-1008",
			ElevationDeg: f(30), RsrpDbm: f(-95), RsrqDb: f(-12),
			LoadFactor: f(0.6), StabilityScore: f(0.6),
		},
	}
}

type fixedCatalog struct {
	entries []celestrak.CatalogEntry
	err     error
}

func (c *fixedCatalog) SearchCatalog(ctx context.Context, name string) ([]celestrak.CatalogEntry, error) {
	return c.entries, c.err
}

func testCatalog() *fixedCatalog {
	return &fixedCatalog{entries: []celestrak.CatalogEntry{
		{NoradID: 44713, Name: "STARLINK-1007", IntlDesig: "2019-074A", LaunchDate: "2019-11-11", Active: true},
		{NoradID: 44714, Name: "STARLINK-1008", IntlDesig: "2019-074B", LaunchDate: "2019-11-11", Active: true},
	}}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)

	source := &fixedSource{batch: testBatch()}
	tm := telemetry.NewManager(telemetry.ModeMock, nil, source, nil, nil, log)

	decisions := decision.NewService(tm, nil, nil, nil, log)

	trainCfg := config.TrainingConfig{
		DefaultAlgorithm: "dqn",
		DefaultEpisodes:  3,
		EpisodeInterval:  time.Millisecond,
		MaxSessions:      10,
	}
	manager := training.NewManager(decisions, nil, nil, log, trainCfg)
	t.Cleanup(manager.Shutdown)

	router := NewRouter(
		handlers.NewSatelliteHandler(tm, testCatalog(), log),
		handlers.NewDecisionHandler(decisions, log),
		handlers.NewTrainingHandler(manager, log),
		handlers.NewExportHandler(manager, log),
		log,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, server *httptest.Server, path string, out interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	var body map[string]interface{}
	resp := getJSON(t, server, "/health", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestGetVisibleSatellites(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		Source       string                           `json:"source"`
		Count        int                              `json:"count"`
		Measurements []contracts.CandidateMeasurement `json:"measurements"`
	}
	resp := getJSON(t, server, "/api/satellites/visible", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "mock", body.Source)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Measurements, 2)
	assert.Equal(t, "SAT-44713", body.Measurements[0].ID)
}

func TestSearchCatalog(t *testing.T) {
	server := newTestServer(t)

	var body struct {
		Query   string                   `json:"query"`
		Count   int                      `json:"count"`
		Results []celestrak.CatalogEntry `json:"results"`
	}
	resp := getJSON(t, server, "/api/satellites/search?name=STARLINK", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "STARLINK", body.Query)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Results, 2)
	assert.Equal(t, 44713, body.Results[0].NoradID)
	assert.True(t, body.Results[0].Active)
}

func TestSearchCatalog_MissingName(t *testing.T) {
	server := newTestServer(t)

	resp := getJSON(t, server, "/api/satellites/search", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWeightsRoundtrip(t *testing.T) {
	server := newTestServer(t)

	var weights contracts.WeightConfig
	resp := getJSON(t, server, "/api/decision/weights", &weights)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, contracts.DefaultWeightConfig(), weights)

	update := contracts.WeightConfig{Elevation: 0.2, Rsrp: 0.2, Rsrq: 0.2, Load: 0.2, Stability: 0.2}
	payload, _ := json.Marshal(update)

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/decision/weights", bytes.NewReader(payload))
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	putResp.Body.Close()
	assert.Equal(t, http.StatusOK, putResp.StatusCode)

	getJSON(t, server, "/api/decision/weights", &weights)
	assert.Equal(t, update, weights)
}

func TestUpdateWeights_Invalid(t *testing.T) {
	server := newTestServer(t)

	bad := contracts.WeightConfig{Elevation: 0.9, Rsrp: 0.9}
	payload, _ := json.Marshal(bad)

	req, _ := http.NewRequest(http.MethodPut, server.URL+"/api/decision/weights", bytes.NewReader(payload))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEvaluate_LiveBatch(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/decision/evaluate", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var trace contracts.DecisionTrace
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trace))
	assert.Equal(t, "SAT-44713", trace.SelectedID)
	assert.Len(t, trace.Steps, 2)
}

func TestEvaluate_PostedBatch(t *testing.T) {
	server := newTestServer(t)

	payload := `{"measurements":[{"id":"ONLY","elevationDeg":45}]}`
	resp, err := http.Post(server.URL+"/api/decision/evaluate", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var trace contracts.DecisionTrace
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&trace))
	assert.Equal(t, "ONLY", trace.SelectedID)
	assert.Equal(t, 1.0, trace.Confidence)
}

func TestEvaluate_EmptyBatch(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/decision/evaluate", "application/json", strings.NewReader(`{"measurements":[]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLatestTrace_NotFoundBeforeEvaluation(t *testing.T) {
	server := newTestServer(t)

	resp := getJSON(t, server, "/api/decision/traces/latest", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func createSession(t *testing.T, server *httptest.Server, name string, episodes int) string {
	t.Helper()
	payload := fmt.Sprintf(`{"name":%q,"algorithm":"dqn","totalEpisodes":%d}`, name, episodes)
	resp, err := http.Post(server.URL+"/api/training/sessions", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session contracts.TrainingSession
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	return session.ID
}

func TestTrainingSessionLifecycle(t *testing.T) {
	server := newTestServer(t)

	id := createSession(t, server, "lifecycle", 2)

	resp, err := http.Post(server.URL+"/api/training/sessions/"+id+"/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Wait for completion
	deadline := time.Now().Add(5 * time.Second)
	var session contracts.TrainingSession
	for time.Now().Before(deadline) {
		getJSON(t, server, "/api/training/sessions/"+id, &session)
		if session.Terminal() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, contracts.SessionCompleted, session.Status)

	var episodes struct {
		Count    int                 `json:"count"`
		Episodes []contracts.Episode `json:"episodes"`
	}
	getJSON(t, server, "/api/training/sessions/"+id+"/episodes", &episodes)
	assert.Equal(t, 2, episodes.Count)

	var stats struct {
		Algorithms []struct {
			Algorithm string                 `json:"algorithm"`
			Sessions  int                    `json:"sessions"`
			Stats     contracts.EpisodeStats `json:"stats"`
		} `json:"algorithms"`
	}
	getJSON(t, server, "/api/training/stats", &stats)
	require.Len(t, stats.Algorithms, 1)
	assert.Equal(t, "dqn", stats.Algorithms[0].Algorithm)
	assert.Equal(t, 2, stats.Algorithms[0].Stats.Episodes)

	// Delete the completed session
	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/training/sessions/"+id, nil)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
}

func TestTrainingSession_NotFound(t *testing.T) {
	server := newTestServer(t)

	resp := getJSON(t, server, "/api/training/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTrainingSession_StopBeforeStartConflicts(t *testing.T) {
	server := newTestServer(t)

	id := createSession(t, server, "conflict", 2)

	resp, err := http.Post(server.URL+"/api/training/sessions/"+id+"/stop", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestExportEpisodesCSV(t *testing.T) {
	server := newTestServer(t)

	id := createSession(t, server, "export", 2)

	resp, err := http.Post(server.URL+"/api/training/sessions/"+id+"/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	deadline := time.Now().Add(5 * time.Second)
	var session contracts.TrainingSession
	for time.Now().Before(deadline) {
		getJSON(t, server, "/api/training/sessions/"+id, &session)
		if session.Terminal() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, session.Terminal())

	csvResp, err := http.Get(server.URL + "/api/export/episodes/" + id + ".csv")
	require.NoError(t, err)
	defer csvResp.Body.Close()

	require.Equal(t, http.StatusOK, csvResp.StatusCode)
	assert.Equal(t, "text/csv", csvResp.Header.Get("Content-Type"))

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(csvResp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 episodes
	assert.Contains(t, lines[0], "session_id")
	assert.Contains(t, lines[0], "reward")
}
