package main

import (
	"os"

	"github.com/wonny/macromoney/cmd/macromoney/commands"
)

// main is the entry point for the MacroMoney CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/macromoney [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
