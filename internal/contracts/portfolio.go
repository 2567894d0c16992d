package contracts

import (
	"fmt"
	"math"
	"sort"
)

// Asset class names used by the default taxonomy
const (
	AssetEquities    = "Equities"
	AssetBonds       = "Bonds"
	AssetETFs        = "ETFs"
	AssetCrypto      = "Crypto"
	AssetCommodities = "Commodities"
)

// WeightTolerance is the accepted distance from 100 for a portfolio total
const WeightTolerance = 0.01

// Portfolio maps an asset-class name to its weight in percent (0 ~ 100)
// ⭐ 계약: 합계는 항상 100 (±WeightTolerance). Rebalance는 새 복사본을 반환
type Portfolio map[string]float64

// DefaultPortfolio returns the equal-weight five asset portfolio
func DefaultPortfolio() Portfolio {
	return Portfolio{
		AssetEquities:    20,
		AssetBonds:       20,
		AssetETFs:        20,
		AssetCrypto:      20,
		AssetCommodities: 20,
	}
}

// Total returns the sum of all weights
func (p Portfolio) Total() float64 {
	total := 0.0
	for _, w := range p {
		total += w
	}
	return total
}

// Clone returns an independent copy
func (p Portfolio) Clone() Portfolio {
	out := make(Portfolio, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Assets returns asset names in display order: the five default classes first, then the rest alphabetically
func (p Portfolio) Assets() []string {
	rank := map[string]int{
		AssetEquities:    0,
		AssetBonds:       1,
		AssetETFs:        2,
		AssetCrypto:      3,
		AssetCommodities: 4,
	}

	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		ri, okI := rank[names[i]]
		rj, okJ := rank[names[j]]
		switch {
		case okI && okJ:
			return ri < rj
		case okI:
			return true
		case okJ:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// Validate checks weights before any analysis runs.
// Weights that do not sum to 100 are rejected, never silently renormalized.
func (p Portfolio) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: no assets", ErrInvalidPortfolio)
	}

	for _, asset := range p.Assets() {
		w := p[asset]
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %s weight is not a number", ErrInvalidPortfolio, asset)
		}
		if w < 0 {
			return fmt.Errorf("%w: %s weight %.2f is negative", ErrInvalidPortfolio, asset, w)
		}
	}

	if total := p.Total(); math.Abs(total-100) > WeightTolerance {
		return fmt.Errorf("%w: weights sum to %.2f, want 100", ErrInvalidPortfolio, total)
	}

	return nil
}
