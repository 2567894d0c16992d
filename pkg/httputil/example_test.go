package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/macromoney/pkg/config"
	"github.com/wonny/macromoney/pkg/httputil"
	"github.com/wonny/macromoney/pkg/logger"
)

// Example_basic demonstrates basic HTTP client usage
func Example_basic() {
	cfg := &config.Config{Env: "production", LogLevel: "info"}
	log := logger.New(cfg)

	// Create HTTP client (SSOT)
	client := httputil.New(cfg, log)

	resp, err := client.Get(context.Background(), "https://api.example.com/health")
	if err != nil {
		fmt.Printf("request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("status: %d\n", resp.StatusCode)
}

// Example_sdkTransport shows the client used as the transport of an SDK client
func Example_sdkTransport() {
	cfg := &config.Config{Env: "development", LogLevel: "info"}

	std := httputil.NewWithTimeout(cfg, logger.NewNop(), 15*time.Second).
		WithRetry(2, 500*time.Millisecond).
		StdClient()

	fmt.Println(std.Timeout)
}
