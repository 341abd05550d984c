package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// Collector bundles the Prometheus metrics for the monitoring backend.
// A nil *Collector is valid and drops every observation, so callers never
// need to guard metric calls behind config checks.
// ⭐ SSOT: Prometheus 메트릭 등록은 여기서만
type Collector struct {
	registry *prometheus.Registry

	evaluations        prometheus.Counter
	evaluationDuration prometheus.Histogram
	evaluationSize     prometheus.Histogram
	telemetryFallbacks *prometheus.CounterVec
	runningSessions    prometheus.Gauge
	episodeRewards     *prometheus.HistogramVec
}

// NewCollector registers the leoscope metrics on a fresh registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leoscope_decision_evaluations_total",
			Help: "Total number of handover decision evaluations.",
		}),
		evaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leoscope_decision_evaluation_duration_seconds",
			Help:    "Decision evaluation latency in seconds.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		evaluationSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leoscope_decision_candidate_count",
			Help:    "Number of candidates per decision evaluation.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		}),
		telemetryFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leoscope_telemetry_fallbacks_total",
			Help: "Telemetry source fallbacks, labeled by the source that failed.",
		}, []string{"from"}),
		runningSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leoscope_training_running_sessions",
			Help: "Current number of running training sessions.",
		}),
		episodeRewards: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leoscope_training_episode_reward",
			Help:    "Episode reward distribution, labeled by algorithm.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"algorithm"}),
	}

	registry.MustRegister(
		c.evaluations,
		c.evaluationDuration,
		c.evaluationSize,
		c.telemetryFallbacks,
		c.runningSessions,
		c.episodeRewards,
	)

	return c
}

// ObserveEvaluation records one decision evaluation
func (c *Collector) ObserveEvaluation(duration time.Duration, candidates int) {
	if c == nil {
		return
	}
	c.evaluations.Inc()
	c.evaluationDuration.Observe(duration.Seconds())
	c.evaluationSize.Observe(float64(candidates))
}

// IncFallback records a telemetry source fallback
func (c *Collector) IncFallback(from string) {
	if c == nil {
		return
	}
	c.telemetryFallbacks.WithLabelValues(from).Inc()
}

// SetRunningSessions updates the running-session gauge
func (c *Collector) SetRunningSessions(n int) {
	if c == nil {
		return
	}
	c.runningSessions.Set(float64(n))
}

// ObserveEpisodeReward records one episode reward
func (c *Collector) ObserveEpisodeReward(algorithm string, reward float64) {
	if c == nil {
		return
	}
	c.episodeRewards.WithLabelValues(algorithm).Observe(reward)
}

// Handler returns the HTTP handler serving the metrics endpoint
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Server is a standalone HTTP server exposing /metrics
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer creates the metrics server from config
func NewServer(cfg *config.Config, log *logger.Logger, collector *Collector) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.MetricsPort,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: log,
	}
}

// Start starts the metrics server
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting metrics server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the metrics server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
