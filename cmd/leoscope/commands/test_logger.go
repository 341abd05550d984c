package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Logger 기능 테스트",
	Long: `구조화된 로깅 기능을 테스트합니다.

이 명령어는:
- JSON/Console 포맷 테스트
- 로그 레벨 테스트
- 구조화된 필드 로깅
- 에러 컨텍스트 로깅

Example:
  go run ./cmd/leoscope test-logger
  go run ./cmd/leoscope test-logger --env production`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== LEOScope Logger Test ===")

	// Test 1: JSON Format (Production)
	fmt.Println("1. JSON Format (Production)")
	fmt.Println("--------------------------------")
	if err := testJSONFormat(); err != nil {
		return err
	}
	fmt.Println()

	// Test 2: Console Format (Development)
	fmt.Println("2. Console Format (Development)")
	fmt.Println("--------------------------------")
	if err := testConsoleFormat(); err != nil {
		return err
	}
	fmt.Println()

	// Test 3: Structured Logging
	fmt.Println("3. Structured Logging with Fields")
	fmt.Println("--------------------------------")
	if err := testStructuredLogging(); err != nil {
		return err
	}
	fmt.Println()

	// Test 4: Error Logging
	fmt.Println("4. Error Logging")
	fmt.Println("--------------------------------")
	if err := testErrorLogging(); err != nil {
		return err
	}
	fmt.Println()

	fmt.Println("✅ All logger tests completed!")
	return nil
}

func testJSONFormat() error {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)
	log.Info("Service started")
	log.Warn("High memory usage detected")
	log.Error("Failed to connect to ground station")
	return nil
}

func testConsoleFormat() error {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "console",
	}

	log := logger.New(cfg)
	log.Debug("Debugging application flow")
	log.Info("Request received from client")
	log.Warn("Cache miss, fetching from database")
	return nil
}

func testStructuredLogging() error {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Single field
	sessionLog := log.WithField("session_id", "a2f6c1d8-9b3e-4f5a-8c7d-1e2f3a4b5c6d")
	sessionLog.Info("Training session started")

	// Multiple fields
	decisionLog := log.WithFields(map[string]interface{}{
		"satellite_id": "SAT-44713",
		"score":        82.45,
		"confidence":   0.114,
		"candidates":   6,
	})
	decisionLog.Info("Handover decision recorded")

	// Chained fields
	log.WithField("module", "telemetry").
		WithField("source", "mock").
		Info("Measurement batch generated")
	return nil
}

func testErrorLogging() error {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Simple error
	err := errors.New("connection timeout")
	log.WithError(err).Error("Failed to fetch telemetry")

	// Error with context
	log.WithError(err).
		WithFields(map[string]interface{}{
			"retry_count": 3,
			"timeout_ms":  5000,
			"endpoint":    "/api/measurements",
		}).
		Error("Telemetry fetch failed after retries")
	return nil
}
