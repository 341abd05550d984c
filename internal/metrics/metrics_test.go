package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector

	// None of these may panic on a nil collector
	c.ObserveEvaluation(time.Millisecond, 5)
	c.IncFallback("live")
	c.SetRunningSessions(3)
	c.ObserveEpisodeReward("dqn", 0.7)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()

	c.ObserveEvaluation(2*time.Millisecond, 8)
	c.IncFallback("live")
	c.SetRunningSessions(2)
	c.ObserveEpisodeReward("ppo", 0.65)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "leoscope_decision_evaluations_total 1")
	assert.Contains(t, body, `leoscope_telemetry_fallbacks_total{from="live"} 1`)
	assert.Contains(t, body, "leoscope_training_running_sessions 2")
	assert.Contains(t, body, `algorithm="ppo"`)
}
