package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "훈련 세션 상태 모니터링",
	Long: `실행 중인 API 서버의 훈련 세션 상태를 주기적으로 표시합니다.

표시 정보:
- 세션별 상태와 진행도
- 최근 결정 트레이스 요약

Example:
  go run ./cmd/leoscope status
  go run ./cmd/leoscope status --server http://localhost:8100 --refresh 5s`,
	RunE: runStatus,
}

var (
	statusServer  string
	statusRefresh time.Duration
	statusOnce    bool
)

func init() {
	rootCmd.AddCommand(statusCmd)

	// Flags
	statusCmd.Flags().StringVar(&statusServer, "server", "http://localhost:8100", "API 서버 주소")
	statusCmd.Flags().DurationVar(&statusRefresh, "refresh", 3*time.Second, "갱신 간격")
	statusCmd.Flags().BoolVar(&statusOnce, "once", false, "한 번만 표시하고 종료")
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== LEOScope Session Status Monitor ===")
	fmt.Printf("Server: %s  Refresh: %v\n", statusServer, statusRefresh)

	if statusOnce {
		return displayStatus()
	}

	fmt.Println("Press Ctrl+C to stop")

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(statusRefresh)
	defer ticker.Stop()

	// Initial display
	if err := displayStatus(); err != nil {
		fmt.Printf("⚠️  %v\n", err)
	}

	for {
		select {
		case <-sigChan:
			fmt.Println("\nMonitor stopped")
			return nil
		case <-ticker.C:
			if err := displayStatus(); err != nil {
				fmt.Printf("⚠️  %v\n", err)
			}
		}
	}
}

func displayStatus() error {
	var sessions struct {
		Count    int                         `json:"count"`
		Sessions []contracts.TrainingSession `json:"sessions"`
	}
	if err := fetchStatusJSON("/api/training/sessions", &sessions); err != nil {
		return err
	}

	PrintBanner(fmt.Sprintf("Sessions (%d) @ %s", sessions.Count, time.Now().Format("15:04:05")))
	if sessions.Count == 0 {
		fmt.Println("  (no sessions)")
	}
	for _, s := range sessions.Sessions {
		fmt.Printf("  %-36s %-10s %-10s %d/%d\n",
			s.ID, s.Algorithm, s.Status, s.CurrentEpisode, s.TotalEpisodes)
	}

	var trace contracts.DecisionTrace
	if err := fetchStatusJSON("/api/decision/traces/latest", &trace); err == nil {
		fmt.Println("───────────────────────────────────────────────────────────")
		fmt.Printf("  Latest decision: %s (confidence %.4f, %d candidates)\n",
			trace.SelectedID, trace.Confidence, len(trace.Steps))
	}

	return nil
}

func fetchStatusJSON(path string, out interface{}) error {
	resp, err := http.Get(statusServer + path)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
