package commands

import (
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X .../commands.version=..."
var version = "dev"

var (
	// Global flags
	taxonomyFile string
	strategy     string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "macromoney",
	Short: "MacroMoney - 헤드라인 기반 매크로 리밸런싱",
	Long: `MacroMoney CLI

뉴스 헤드라인을 매크로 테마로 분류하고, 심각도와 투자 기간 게이트를 거쳐
포트폴리오 리밸런싱 제안을 계산합니다.

Pipeline:
  headline → classifier → severity → horizon gate → rebalance

Examples:
  go run ./cmd/macromoney analyze --headline "Fed signals rate hike" --horizon 1
  go run ./cmd/macromoney themes
  go run ./cmd/macromoney taxonomy check --file taxonomy.yaml
  go run ./cmd/macromoney api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = version

	// Global flags
	rootCmd.PersistentFlags().StringVar(&taxonomyFile, "taxonomy", "", "taxonomy YAML (default: TAXONOMY_FILE or embedded)")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "classifier strategy: lexical|similarity (default: STRATEGY)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
