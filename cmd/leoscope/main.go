package main

import (
	"os"

	"github.com/wonny/leoscope/backend/cmd/leoscope/commands"
)

// main is the entry point for the LEOScope CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/leoscope [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
