package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/macromoney/internal/macroconfig"
)

// taxonomyCmd represents the taxonomy command
var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "분류 체계 YAML 관리",
	Long: `분류 체계 YAML을 검증하거나 기본값을 출력합니다.

Example:
  go run ./cmd/macromoney taxonomy check
  go run ./cmd/macromoney taxonomy check --file custom.yaml
  go run ./cmd/macromoney taxonomy dump > custom.yaml`,
}

var (
	taxonomyCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "YAML 검증 및 해시 출력",
		RunE:  runTaxonomyCheck,
	}

	taxonomyDumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "내장 기본 YAML 출력",
		RunE:  runTaxonomyDump,
	}

	// Flags
	taxonomyCheckFile string
)

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.AddCommand(taxonomyCheckCmd)
	taxonomyCmd.AddCommand(taxonomyDumpCmd)

	taxonomyCheckCmd.Flags().StringVar(&taxonomyCheckFile, "file", "", "YAML file (default: embedded taxonomy)")
}

// resolveTaxonomyFile picks --taxonomy, then TAXONOMY_FILE
func resolveTaxonomyFile() string {
	if taxonomyFile != "" {
		return taxonomyFile
	}
	return os.Getenv("TAXONOMY_FILE")
}

func runTaxonomyCheck(cmd *cobra.Command, args []string) error {
	path := taxonomyCheckFile
	if path == "" {
		path = resolveTaxonomyFile()
	}

	var (
		cfg *macroconfig.Config
		err error
	)
	source := "embedded"
	if path != "" {
		cfg, _, err = macroconfig.Load(path)
		source = path
	} else {
		cfg, err = macroconfig.Default()
	}
	if err != nil {
		return fmt.Errorf("taxonomy %s is invalid: %w", source, err)
	}

	snapshot, err := macroconfig.NewDecisionSnapshot(cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printHeader(w, "Taxonomy check")
	fmt.Fprintf(w, "  Source    : %s\n", source)
	fmt.Fprintf(w, "  Name      : %s\n", snapshot.Name)
	fmt.Fprintf(w, "  Version   : %s\n", snapshot.Version)
	fmt.Fprintf(w, "  Hash      : %s\n", snapshot.ConfigHash)
	fmt.Fprintf(w, "  Themes    : %d macro, %d micro\n", len(cfg.MacroThemes), len(cfg.MicroThemes))
	fmt.Fprintf(w, "  Rules     : %d\n", len(cfg.Rebalance.Rules))
	fmt.Fprintln(w, singleLine)

	warnings := macroconfig.Warn(cfg)
	if len(warnings) == 0 {
		fmt.Fprintln(w, "  ✅ valid, no warnings")
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "  ⚠️  [%s] %s\n", warn.Code, warn.Message)
	}
	fmt.Fprintln(w, doubleLine)
	return nil
}

func runTaxonomyDump(cmd *cobra.Command, args []string) error {
	_, err := cmd.OutOrStdout().Write(macroconfig.DefaultYAML())
	return err
}
