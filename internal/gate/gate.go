// Package gate decides whether a severity justifies rebalancing for a given horizon.
package gate

import (
	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/macroconfig"
)

// =============================================================================
// HorizonGate - 투자기간별 리밸런싱 임계값
// =============================================================================

// HorizonGate selects a minimum severity by horizon bracket.
// Short horizons react to weaker signals, long horizons need stronger confirmation.
// ⭐ SSOT: 리밸런싱 여부 판단은 여기서만
type HorizonGate struct {
	brackets []macroconfig.Bracket
}

// New copies the bracket table out of cfg
func New(cfg *macroconfig.Config) *HorizonGate {
	return &HorizonGate{
		brackets: append([]macroconfig.Bracket(nil), cfg.Gate.Brackets...),
	}
}

// Threshold returns the minimum severity for horizonYears.
// Bracket upper bounds are inclusive: horizon 1.0 falls in the first bracket.
func (g *HorizonGate) Threshold(horizonYears float64) float64 {
	for _, b := range g.brackets {
		if b.IsOpenEnded() || horizonYears <= b.MaxHorizonYears {
			return b.MinSeverity
		}
	}
	// 검증된 설정에서는 마지막 구간이 항상 open-ended
	return g.brackets[len(g.brackets)-1].MinSeverity
}

// ShouldRebalance reports whether severity meets the horizon threshold
func (g *HorizonGate) ShouldRebalance(severity, horizonYears float64) bool {
	return severity >= g.Threshold(horizonYears)
}

// Evaluate returns the full gate decision for reporting
func (g *HorizonGate) Evaluate(severity, horizonYears float64) contracts.GateDecision {
	threshold := g.Threshold(horizonYears)
	return contracts.GateDecision{
		Evaluated: true,
		Passed:    severity >= threshold,
		Threshold: threshold,
	}
}
