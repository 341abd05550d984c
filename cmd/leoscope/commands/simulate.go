package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/leoscope/backend/internal/decision"
	"github.com/wonny/leoscope/backend/internal/scenario"
	"github.com/wonny/leoscope/backend/internal/telemetry"
	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "시나리오 기반 핸드오버 결정 시뮬레이션",
	Long: `시나리오 파일의 가중치와 mock 텔레메트리로 핸드오버 결정을
반복 평가하고 트레이스를 출력합니다. 서버나 DB 없이 동작합니다.

Example:
  go run ./cmd/leoscope simulate
  go run ./cmd/leoscope simulate --scenario scenarios/rush-hour.yaml --rounds 5`,
	RunE: runSimulate,
}

var (
	simulateScenario string
	simulateRounds   int
	simulateInterval time.Duration
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	// Flags
	simulateCmd.Flags().StringVar(&simulateScenario, "scenario", "", "시나리오 YAML 파일 (기본: 내장 baseline)")
	simulateCmd.Flags().IntVar(&simulateRounds, "rounds", 3, "평가 라운드 수")
	simulateCmd.Flags().DurationVar(&simulateInterval, "interval", time.Second, "라운드 간격")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	fmt.Println("=== LEOScope Handover Simulation ===")

	// 1. Load scenario
	scn := scenario.Default()
	if simulateScenario != "" {
		loaded, err := scenario.Load(simulateScenario)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
		scn = loaded
	}

	// 2. Load config for logging defaults
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	// 3. Build an ephemeral decision pipeline on mock telemetry
	batchSize := cfg.Telemetry.MockBatchSize
	if batchSize <= 0 {
		batchSize = 6
	}
	source := telemetry.NewMockSource(scn.Telemetry.Seed, batchSize, log)

	decisions := decision.NewService(source, nil, nil, nil, log)
	if err := decisions.SetWeights(scn.Weights); err != nil {
		return fmt.Errorf("apply scenario weights: %w", err)
	}

	PrintBanner(fmt.Sprintf("Scenario: %s", scn.Name))
	if scn.Description != "" {
		fmt.Printf("  %s\n", scn.Description)
	}
	fmt.Printf("  Seed: %d  Batch: %d  Rounds: %d\n", scn.Telemetry.Seed, batchSize, simulateRounds)

	// 4. Evaluate
	ctx := context.Background()
	for round := 1; round <= simulateRounds; round++ {
		if round > 1 {
			time.Sleep(simulateInterval)
		}

		trace, err := decisions.Evaluate(ctx)
		if err != nil {
			return fmt.Errorf("round %d evaluation: %w", round, err)
		}

		PrintBanner(fmt.Sprintf("Round %d/%d", round, simulateRounds))
		PrintTrace(trace)
	}

	fmt.Println("\n✅ Simulation complete")
	return nil
}
