package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/severity"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	singleLine = "───────────────────────────────────────────────────────────"
	doubleLine = "═══════════════════════════════════════════════════════════"
)

// printHeader prints a titled block header
func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, singleLine)
}

// printResult renders one analysis as a before/after table
func printResult(w io.Writer, res *contracts.AnalysisResult) {
	cls := res.Classification

	printHeader(w, "MacroMoney Analysis")
	fmt.Fprintf(w, "  Headline  : %s\n", res.Headline)
	fmt.Fprintf(w, "  Strategy  : %s\n", res.Strategy)
	fmt.Fprintf(w, "  Tier      : %s\n", cls.Tier)
	if cls.Theme != "" {
		theme := cls.Theme.String()
		if cls.HasSecondary() {
			theme += " (+ " + cls.Secondary.String() + ")"
		}
		fmt.Fprintf(w, "  Theme     : %s\n", theme)
	}
	if cls.Keyword != "" {
		fmt.Fprintf(w, "  Keyword   : %s\n", cls.Keyword)
	}
	if cls.Scores != nil {
		fmt.Fprintf(w, "  Similarity: %.4f", cls.Scores.Primary)
		if cls.HasSecondary() {
			fmt.Fprintf(w, " / %.4f", cls.Scores.Secondary)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  Sentiment : %d (%s)\n", res.Sentiment, severity.Label(res.Sentiment))
	if res.Gate.Evaluated {
		verdict := "FAIL"
		if res.Gate.Passed {
			verdict = "PASS"
		}
		fmt.Fprintf(w, "  Severity  : %.2f (threshold %.0f for %.1fy) %s\n",
			res.Severity, res.Gate.Threshold, res.HorizonYears, verdict)
	}
	fmt.Fprintf(w, "  Reason    : %s\n", res.Reason)
	fmt.Fprintln(w, singleLine)

	if !res.IsRebalanced() {
		fmt.Fprintln(w, "  No rebalance. Current allocation:")
		for _, asset := range res.Current.Assets() {
			fmt.Fprintf(w, "  %-12s %7.2f%%  $%12.2f\n", asset, res.Current[asset], res.CurrentValues[asset])
		}
		fmt.Fprintln(w, doubleLine)
		return
	}

	fmt.Fprintf(w, "  %-12s %8s %8s %8s %14s\n", "Asset", "Before", "After", "Δ", "Value")
	delta := res.Delta()
	for _, asset := range res.Current.Assets() {
		fmt.Fprintf(w, "  %-12s %7.2f%% %7.2f%% %+7.2f  $%12.2f\n",
			asset, res.Current[asset], res.Rebalanced[asset], delta[asset], res.RebalancedValues[asset])
	}
	fmt.Fprintln(w, doubleLine)
}

// joinOrDash renders a keyword list
func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
