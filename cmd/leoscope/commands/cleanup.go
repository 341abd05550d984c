package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/leoscope/backend/pkg/config"
	"github.com/wonny/leoscope/backend/pkg/database"
	"github.com/wonny/leoscope/backend/pkg/logger"
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "데이터 정리 도구",
	Long: `데이터베이스 정리 작업을 수행합니다.

Example:
  leoscope cleanup traces --days 30`,
}

var cleanupTracesCmd = &cobra.Command{
	Use:   "traces",
	Short: "오래된 결정 트레이스 삭제",
	Long: `보존 기간이 지난 결정 트레이스를 삭제합니다.

대시보드는 최근 트레이스만 사용하므로 오래된 행은 테이블만
키웁니다. 기본 보존 기간은 30일입니다.

Example:
  leoscope cleanup traces
  leoscope cleanup traces --days 7`,
	RunE: runCleanupTraces,
}

var cleanupDays int

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.AddCommand(cleanupTracesCmd)

	// Flags
	cleanupTracesCmd.Flags().IntVar(&cleanupDays, "days", 30, "보존 기간 (일)")
}

func runCleanupTraces(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Decision Trace Cleanup ===")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	log := logger.New(cfg)

	// Create database connection
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -cleanupDays)
	fmt.Printf("Deleting traces older than %s...\n", cutoff.Format("2006-01-02"))

	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM decision.traces WHERE created_at < $1`, cutoff)
	if err != nil {
		return fmt.Errorf("❌ Failed to delete traces: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"deleted": tag.RowsAffected(),
		"cutoff":  cutoff,
	}).Info("Old decision traces deleted")

	fmt.Printf("✅ Deleted %d traces\n", tag.RowsAffected())
	return nil
}
