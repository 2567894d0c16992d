package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/macromoney/internal/macroconfig"
)

// themesCmd represents the themes command
var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "테마 분류 체계 및 리밸런싱 규칙 출력",
	Long: `분류 순서(first-match-wins)대로 테마, 키워드, 규칙, 게이트 구간을 출력합니다.

Example:
  go run ./cmd/macromoney themes
  go run ./cmd/macromoney themes --taxonomy custom.yaml`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	taxonomy, err := macroconfig.LoadOrDefault(resolveTaxonomyFile())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printHeader(w, fmt.Sprintf("Taxonomy %s v%s", taxonomy.Meta.Name, taxonomy.Meta.Version))

	fmt.Fprintf(w, "  Irrelevant : %s\n", joinOrDash(taxonomy.IrrelevantKeywords))
	fmt.Fprintln(w, singleLine)

	fmt.Fprintln(w, "  Micro themes")
	for _, t := range taxonomy.MicroThemes {
		fmt.Fprintf(w, "    %-16s %s\n", t.ID, joinOrDash(t.Keywords))
	}
	fmt.Fprintln(w, singleLine)

	fmt.Fprintln(w, "  Macro themes")
	for i, t := range taxonomy.MacroThemes {
		fmt.Fprintf(w, "  %2d. %-16s %s\n", i+1, t.ID, joinOrDash(t.Keywords))
		if t.Description != "" {
			fmt.Fprintf(w, "      %-16s %q\n", "", t.Description)
		}
		if deltas, ok := taxonomy.RuleFor(t.ID); ok {
			fmt.Fprintf(w, "      %-16s", "")
			for _, d := range deltas {
				fmt.Fprintf(w, " %s %+g", d.Asset, d.Delta)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w, singleLine)

	fmt.Fprintln(w, "  Horizon gate")
	for _, b := range taxonomy.Gate.Brackets {
		if b.IsOpenEnded() {
			fmt.Fprintf(w, "    longer            severity >= %.0f\n", b.MinSeverity)
			continue
		}
		fmt.Fprintf(w, "    <= %-4g years     severity >= %.0f\n", b.MaxHorizonYears, b.MinSeverity)
	}
	fmt.Fprintln(w, doubleLine)
	return nil
}
