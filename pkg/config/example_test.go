package config_test

import (
	"fmt"

	"github.com/wonny/macromoney/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Strategy: %s\n", cfg.Strategy)
	fmt.Printf("Embedding provider: %s (%s)\n", cfg.Embedding.Provider, cfg.Embedding.Model)
}
