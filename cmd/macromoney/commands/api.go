package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/macromoney/internal/api"
	"github.com/wonny/macromoney/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- similarity 전략이면 테마 임베딩을 미리 계산
- HTTP API 서버 시작

Endpoints:
  GET  /health        - Health check
  GET  /metrics       - Prometheus metrics
  GET  /api/themes    - 분류 체계 조회
  POST /api/analyze   - 헤드라인 분석

Example:
  go run ./cmd/macromoney api
  go run ./cmd/macromoney api --port 8080 --strategy similarity`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== MacroMoney API Server ===")

	// 1. Config, logger, analyzer
	a, err := bootstrap(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, log := a.cfg, a.log

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Warm theme embeddings (failure is retried on first request)
	prepCtx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	if err := a.analyzer.Prepare(prepCtx); err != nil {
		log.WithError(err).Warn("Theme embedding warm-up failed")
	}
	cancel()

	// 3. Handlers
	themes, err := handlers.NewThemesHandler(a.taxonomy)
	if err != nil {
		return fmt.Errorf("themes handler: %w", err)
	}

	// 4. Router + server
	router := api.NewRouter(api.RouterDeps{
		Analyze:  handlers.NewAnalyzeHandler(a.analyzer, log),
		Themes:   themes,
		Health:   a.health,
		Metrics:  a.metrics,
		Logger:   log,
		Strategy: a.analyzer.Strategy(),
	})
	server := api.New(cfg, log, router)

	// 5. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s (strategy: %s)\n", cfg.Port, a.analyzer.Strategy())
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	if a.metrics != nil {
		fmt.Println("  GET  /metrics")
	}
	fmt.Println("  GET  /api/themes")
	fmt.Println("  POST /api/analyze")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
