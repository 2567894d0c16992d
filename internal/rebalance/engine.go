// Package rebalance applies per-theme weight deltas and renormalizes to 100.
package rebalance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/macroconfig"
)

var hundred = decimal.NewFromInt(100)

// Engine applies the static rule table
// ⭐ SSOT: 비중 변경은 여기서만 (항상 새 복사본 반환)
type Engine struct {
	rules map[contracts.ThemeID][]macroconfig.Delta
}

// New copies the rule table out of cfg
func New(cfg *macroconfig.Config) *Engine {
	rules := make(map[contracts.ThemeID][]macroconfig.Delta, len(cfg.Rebalance.Rules))
	for _, r := range cfg.Rebalance.Rules {
		deltas, _ := cfg.RuleFor(r.Theme)
		rules[r.Theme] = deltas
	}
	return &Engine{rules: rules}
}

// HasRule reports whether theme has a rebalance rule
func (e *Engine) HasRule(theme contracts.ThemeID) bool {
	_, ok := e.rules[theme]
	return ok
}

// Rebalance returns a new portfolio with the theme's rule applied at the given intensity.
//
//  1. copy weights
//  2. no rule or zero intensity → unmodified copy
//  3. add delta × intensity per rule asset (assets missing from the portfolio are skipped)
//  4. clamp negatives to 0
//  5. renormalize to 100 at 2dp; rounding residue goes to the largest weight
//
// A post-rule total ≤ 0 returns ErrDegenerateRenormalization.
func (e *Engine) Rebalance(weights contracts.Portfolio, theme contracts.ThemeID, intensity float64) (contracts.Portfolio, error) {
	out := weights.Clone()

	rule, ok := e.rules[theme]
	if !ok || intensity <= 0 {
		return out, nil
	}
	if intensity > 1 {
		intensity = 1
	}

	assets := out.Assets()
	scale := decimal.NewFromFloat(intensity)

	adjusted := make(map[string]decimal.Decimal, len(assets))
	for _, asset := range assets {
		adjusted[asset] = decimal.NewFromFloat(out[asset])
	}

	for _, d := range rule {
		w, exists := adjusted[d.Asset]
		if !exists {
			continue
		}
		adjusted[d.Asset] = w.Add(decimal.NewFromFloat(d.Delta).Mul(scale))
	}

	total := decimal.Zero
	for _, asset := range assets {
		if adjusted[asset].IsNegative() {
			adjusted[asset] = decimal.Zero
		}
		total = total.Add(adjusted[asset])
	}

	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: theme %s at intensity %.2f leaves total %s",
			contracts.ErrDegenerateRenormalization, theme, intensity, total.StringFixed(2))
	}

	return normalize(adjusted, assets, total), nil
}

// normalize scales to 100 at 2dp and assigns the rounding residue to the largest weight
func normalize(adjusted map[string]decimal.Decimal, assets []string, total decimal.Decimal) contracts.Portfolio {
	rounded := make(map[string]decimal.Decimal, len(assets))
	sum := decimal.Zero
	largest := ""

	for _, asset := range assets {
		w := adjusted[asset].Mul(hundred).DivRound(total, 8).Round(2)
		rounded[asset] = w
		sum = sum.Add(w)
		if largest == "" || w.GreaterThan(rounded[largest]) {
			largest = asset
		}
	}

	// 반올림 잔차 (±0.01 단위) 보정
	if residue := hundred.Sub(sum); !residue.IsZero() {
		rounded[largest] = rounded[largest].Add(residue)
	}

	out := make(contracts.Portfolio, len(assets))
	for _, asset := range assets {
		out[asset] = rounded[asset].InexactFloat64()
	}
	return out
}

// Values converts percentage weights into amounts of capital at 2dp
func Values(weights contracts.Portfolio, capital float64) map[string]float64 {
	if weights == nil {
		return nil
	}

	c := decimal.NewFromFloat(capital)
	out := make(map[string]float64, len(weights))
	for asset, w := range weights {
		out[asset] = decimal.NewFromFloat(w).Div(hundred).Mul(c).Round(2).InexactFloat64()
	}
	return out
}
