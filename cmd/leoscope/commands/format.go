package commands

import (
	"fmt"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintBanner prints a section banner
func PrintBanner(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintTrace prints one decision trace as a ranked table
func PrintTrace(trace *contracts.DecisionTrace) {
	fmt.Printf("  %-14s %-10s %-8s %s\n", "CANDIDATE", "SCORE", "FINAL", "FACTORS")
	for _, step := range trace.Steps {
		mark := ""
		if step.IsFinalSelection {
			mark = "★"
		}
		c := step.Candidate
		fmt.Printf("  %-14s %-10.2f %-8s elev=%.2f rsrp=%.2f rsrq=%.2f load=%.2f stab=%.2f\n",
			c.ID, c.Score, mark,
			c.NormalizedFactors[contracts.FactorElevation],
			c.NormalizedFactors[contracts.FactorRsrp],
			c.NormalizedFactors[contracts.FactorRsrq],
			c.NormalizedFactors[contracts.FactorLoad],
			c.NormalizedFactors[contracts.FactorStability],
		)
	}
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Selected: %s (confidence %.4f)\n", trace.SelectedID, trace.Confidence)
}

// PrintStats prints episode statistics
func PrintStats(stats contracts.EpisodeStats) {
	fmt.Printf("  Episodes     : %d\n", stats.Episodes)
	fmt.Printf("  Mean reward  : %.3f\n", stats.MeanReward)
	fmt.Printf("  Std reward   : %.3f\n", stats.StdReward)
	fmt.Printf("  Min / Max    : %.3f / %.3f\n", stats.MinReward, stats.MaxReward)
	fmt.Printf("  Success rate : %.1f%%\n", stats.SuccessRate*100)
}
