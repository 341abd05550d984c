package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/leoscope/backend/internal/contracts"
	"github.com/wonny/leoscope/backend/internal/decision"
	"github.com/wonny/leoscope/backend/internal/scenario"
	"github.com/wonny/leoscope/backend/internal/telemetry"
	"github.com/wonny/leoscope/backend/internal/training"
	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "로컬 RL 훈련 세션 실행",
	Long: `서버 없이 훈련 세션 하나를 처음부터 끝까지 실행하고
에피소드 통계를 출력합니다. mock 텔레메트리를 사용합니다.

Example:
  go run ./cmd/leoscope train
  go run ./cmd/leoscope train --algorithm ppo --episodes 200
  go run ./cmd/leoscope train --scenario scenarios/rush-hour.yaml`,
	RunE: runTrain,
}

var (
	trainScenario  string
	trainAlgorithm string
	trainEpisodes  int
)

func init() {
	rootCmd.AddCommand(trainCmd)

	// Flags
	trainCmd.Flags().StringVar(&trainScenario, "scenario", "", "시나리오 YAML 파일")
	trainCmd.Flags().StringVar(&trainAlgorithm, "algorithm", "", "알고리즘 (dqn|ppo|sac)")
	trainCmd.Flags().IntVar(&trainEpisodes, "episodes", 0, "에피소드 수")
}

func runTrain(cmd *cobra.Command, args []string) error {
	fmt.Println("=== LEOScope Training Run ===")

	// 1. Load scenario and config
	scn := scenario.Default()
	if trainScenario != "" {
		loaded, err := scenario.Load(trainScenario)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}
		scn = loaded
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	// Flags override the scenario
	algorithm := scn.Training.Algorithm
	if trainAlgorithm != "" {
		algorithm = trainAlgorithm
	}
	if algorithm == "" {
		algorithm = cfg.Training.DefaultAlgorithm
	}
	episodes := scn.Training.Episodes
	if trainEpisodes > 0 {
		episodes = trainEpisodes
	}

	// 2. Ephemeral pipeline on mock telemetry
	batchSize := cfg.Telemetry.MockBatchSize
	if batchSize <= 0 {
		batchSize = 6
	}
	source := telemetry.NewMockSource(scn.Telemetry.Seed, batchSize, log)

	decisions := decision.NewService(source, nil, nil, nil, log)
	if err := decisions.SetWeights(scn.Weights); err != nil {
		return fmt.Errorf("apply scenario weights: %w", err)
	}

	trainCfg := cfg.Training
	trainCfg.EpisodeInterval = 10 * time.Millisecond // local runs should not crawl
	manager := training.NewManager(decisions, nil, nil, log, trainCfg)
	defer manager.Shutdown()

	// 3. Create and run the session
	ctx := context.Background()
	session, err := manager.CreateSession(ctx, scn.Name,
		contracts.Algorithm(algorithm), episodes, scn.Training.Hyperparameters)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	PrintBanner(fmt.Sprintf("Session %s (%s, %d episodes)", session.Name, session.Algorithm, session.TotalEpisodes))

	if _, err := manager.StartSession(ctx, session.ID); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	// 4. Wait for completion, reporting progress
	for {
		time.Sleep(200 * time.Millisecond)

		current, err := manager.GetSession(session.ID)
		if err != nil {
			return fmt.Errorf("poll session: %w", err)
		}

		fmt.Printf("  episode %d/%d\r", current.CurrentEpisode, current.TotalEpisodes)

		if current.Terminal() {
			fmt.Println()
			if current.Status == contracts.SessionFailed {
				return fmt.Errorf("session failed: %s", current.Error)
			}
			break
		}
	}

	// 5. Print stats
	stats, err := manager.Stats(session.ID)
	if err != nil {
		return fmt.Errorf("compute stats: %w", err)
	}

	PrintBanner("Training Results")
	PrintStats(stats)

	fmt.Println("\n✅ Training complete")
	return nil
}
