package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leoscope",
	Short: "LEOScope - LEO 위성 핸드오버 RL 모니터링 백엔드",
	Long: `LEOScope Unified CLI

LEO 위성 핸드오버 결정과 RL 훈련 세션을 위한 Go 백엔드.
후보 위성 스코어링부터 훈련 세션 관리까지.

Usage:
  go run ./cmd/leoscope [command]

Examples:
  go run ./cmd/leoscope api
  go run ./cmd/leoscope simulate --scenario scenarios/baseline.yaml
  go run ./cmd/leoscope train --algorithm dqn --episodes 100
  go run ./cmd/leoscope status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
