package contracts

import "time"

// AnalysisRequest holds the validated presentation-layer inputs for one run
type AnalysisRequest struct {
	Headline     string    `json:"headline"`
	Weights      Portfolio `json:"weights"`
	HorizonYears float64   `json:"horizon_years"`
	Capital      float64   `json:"capital"`
}

// GateDecision is the outcome of the horizon gate
type GateDecision struct {
	Evaluated bool    `json:"evaluated"`
	Passed    bool    `json:"passed"`
	Threshold float64 `json:"threshold"`
}

// AnalysisResult is the single output of analyze().
// Rebalanced is nil for irrelevant, micro and below-threshold outcomes.
type AnalysisResult struct {
	Strategy       string               `json:"strategy"`
	Headline       string               `json:"headline"`
	Classification ClassificationResult `json:"classification"`
	Sentiment      int                  `json:"sentiment"`
	Severity       float64              `json:"severity"`
	Gate           GateDecision         `json:"gate"`
	Reason         string               `json:"reason"`

	HorizonYears float64   `json:"horizon_years"`
	Capital      float64   `json:"capital"`
	Current      Portfolio `json:"current"`
	Rebalanced   Portfolio `json:"rebalanced"`

	CurrentValues    map[string]float64 `json:"current_values,omitempty"`
	RebalancedValues map[string]float64 `json:"rebalanced_values,omitempty"`

	AnalyzedAt time.Time     `json:"analyzed_at"`
	Duration   time.Duration `json:"duration"`
}

// IsRebalanced reports whether a new allocation was produced
func (r *AnalysisResult) IsRebalanced() bool {
	return r.Rebalanced != nil
}

// Delta returns the per-asset change in percentage points (nil when not rebalanced)
func (r *AnalysisResult) Delta() map[string]float64 {
	if r.Rebalanced == nil {
		return nil
	}
	out := make(map[string]float64, len(r.Rebalanced))
	for asset, w := range r.Rebalanced {
		out[asset] = w - r.Current[asset]
	}
	return out
}
