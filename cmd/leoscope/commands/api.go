package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/leoscope/backend/internal/api"
	"github.com/wonny/leoscope/backend/internal/api/handlers"
	"github.com/wonny/leoscope/backend/internal/decision"
	"github.com/wonny/leoscope/backend/internal/external/celestrak"
	"github.com/wonny/leoscope/backend/internal/metrics"
	"github.com/wonny/leoscope/backend/internal/scheduler"
	"github.com/wonny/leoscope/backend/internal/scheduler/jobs"
	"github.com/wonny/leoscope/backend/internal/telemetry"
	"github.com/wonny/leoscope/backend/internal/training"
	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/database"
	"github.com/wonny/leoscope/backend/pkg/httputil"
	"github.com/wonny/leoscope/backend/pkg/logger"
	"github.com/wonny/leoscope/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 후보 위성 조회 / 결정 트레이스 엔드포인트 제공
- RL 훈련 세션 관리 엔드포인트 제공
- 스케줄 작업 (스냅샷, TLE 갱신, 세션 정리) 실행

Endpoints:
  GET  /health                       - Health check
  GET  /api/satellites/visible       - 현재 후보 위성 배치
  GET  /api/decision/weights         - 가중치 조회
  POST /api/decision/evaluate        - 후보 배치 평가
  POST /api/training/sessions        - 훈련 세션 생성

Example:
  go run ./cmd/leoscope api
  go run ./cmd/leoscope api --port 8100`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: 설정값)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== LEOScope API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":      cfg.Port,
		"env":       cfg.Env,
		"telemetry": cfg.Telemetry.Mode,
	}).Info("Initializing API server")

	// 3. Connect to database (optional; the server degrades to in-memory
	// state when no DATABASE_URL is configured)
	var db *database.DB
	if cfg.Database.URL != "" {
		db, err = database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, running without persistence")
	}

	// 4. Connect to Redis (optional)
	var cache *redis.Cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
	} else if redisClient.Enabled() {
		defer redisClient.Close()
		cache = redis.NewCache(redisClient, "leoscope")
		log.Info("Connected to Redis")
	}

	// 5. Metrics collector
	collector := metrics.NewCollector()

	// 6. Telemetry sources
	httpClient := httputil.New(cfg, log)

	mockSource := telemetry.NewMockSource(cfg.Telemetry.MockSeed, cfg.Telemetry.MockBatchSize, log)

	var liveSource *telemetry.LiveSource
	if cfg.Telemetry.GroundStationURL != "" {
		liveSource = telemetry.NewLiveSource(httpClient, cfg.Telemetry.GroundStationURL, log)
	}

	telemetryManager := newTelemetryManager(cfg, liveSource, mockSource, cache, collector, log)

	// 7. Decision service
	var decisionRepo *decision.Repository
	if db != nil {
		decisionRepo = decision.NewRepository(db.Pool)
	}
	decisions := decision.NewService(telemetryManager, decisionRepo, cache, collector, log)

	// 8. Training manager
	var trainingRepo *training.Repository
	if db != nil {
		trainingRepo = training.NewRepository(db.Pool)
	}
	trainingManager := training.NewManager(decisions, trainingRepo, collector, log, cfg.Training)
	defer trainingManager.Shutdown()

	// 9. TLE catalog client
	tleClient := celestrak.NewClient(httpClient, log)
	if cfg.Celestrak.BaseURL != "" {
		tleClient = tleClient.WithBaseURL(cfg.Celestrak.BaseURL)
	}

	// 10. Scheduler
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewDecisionSnapshotJob(decisions, log)); err != nil {
		return fmt.Errorf("add snapshot job: %w", err)
	}
	if err := sched.AddJob(jobs.NewSessionReaperJob(trainingManager, log)); err != nil {
		return fmt.Errorf("add reaper job: %w", err)
	}
	if err := sched.AddJob(jobs.NewTLERefreshJob(tleClient, cache, cfg, log)); err != nil {
		return fmt.Errorf("add TLE refresh job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 11. Router and server
	router := api.NewRouter(
		handlers.NewSatelliteHandler(telemetryManager, tleClient, log),
		handlers.NewDecisionHandler(decisions, log),
		handlers.NewTrainingHandler(trainingManager, log),
		handlers.NewExportHandler(trainingManager, log),
		log,
	)
	server := api.New(cfg, log, router)

	// 12. Metrics server
	var metricsServer *metrics.Server
	if cfg.MetricsEnabled {
		metricsServer = metrics.NewServer(cfg, log, collector)
		go func() {
			if err := metricsServer.Start(); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// 13. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/satellites/visible")
	fmt.Println("  GET  /api/decision/traces/latest")
	fmt.Println("  POST /api/training/sessions")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Metrics server shutdown failed")
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newTelemetryManager wires the configured mode with nil-safe sources
func newTelemetryManager(cfg *config.Config, live *telemetry.LiveSource, mock *telemetry.MockSource, cache *redis.Cache, collector *metrics.Collector, log *logger.Logger) *telemetry.Manager {
	mode := telemetry.Mode(cfg.Telemetry.Mode)
	if live == nil && mode != telemetry.ModeMock {
		log.Warn("No ground station URL configured, forcing mock telemetry")
		mode = telemetry.ModeMock
	}
	if live == nil {
		return telemetry.NewManager(mode, nil, mock, cache, collector, log)
	}
	return telemetry.NewManager(mode, live, mock, cache, collector, log)
}
