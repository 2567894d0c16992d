package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/macromoney/internal/contracts"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "헤드라인 1건 분석 및 리밸런싱 제안",
	Long: `헤드라인을 분류하고 심각도/투자기간 게이트를 거쳐 리밸런싱 결과를 출력합니다.

Weights 형식: Asset=percent (합계 100). 생략 시 기본 배분 사용.

Example:
  go run ./cmd/macromoney analyze --headline "Fed signals rate hike amid inflation" --horizon 1
  go run ./cmd/macromoney analyze --headline "Oil prices surge" \
      --weights Equities=40,Bonds=20,ETFs=20,Crypto=10,Commodities=10 --horizon 2 --capital 50000
  go run ./cmd/macromoney analyze --strategy similarity --headline "..." --json`,
	RunE: runAnalyze,
}

var (
	analyzeHeadline string
	analyzeWeights  string
	analyzeHorizon  float64
	analyzeCapital  float64
	analyzeJSON     bool
	analyzeTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeHeadline, "headline", "", "news headline (required)")
	analyzeCmd.Flags().StringVar(&analyzeWeights, "weights", "", "Asset=percent list, e.g. Equities=20,Bonds=20")
	analyzeCmd.Flags().Float64Var(&analyzeHorizon, "horizon", 1, "investment horizon in years")
	analyzeCmd.Flags().Float64Var(&analyzeCapital, "capital", 10000, "capital to allocate")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall timeout")
	_ = analyzeCmd.MarkFlagRequired("headline")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	weights, err := parseWeights(analyzeWeights)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	a, err := bootstrap(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.analyzer.Analyze(ctx, contracts.AnalysisRequest{
		Headline:     analyzeHeadline,
		Weights:      weights,
		HorizonYears: analyzeHorizon,
		Capital:      analyzeCapital,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(out, res)
	return nil
}
