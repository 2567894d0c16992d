// Package severity scores how strongly a classified headline should move the allocation.
package severity

import (
	"fmt"
	"math"
	"strings"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/macroconfig"
)

// Scorer maps a classified headline to a severity in its declared range
type Scorer interface {
	Score(headline string, cls contracts.ClassificationResult, horizonYears float64) float64
	Range() (min, max float64)
}

// New returns the scorer variant that matches the classifier strategy
func New(strategy string, cfg *macroconfig.Config) (Scorer, error) {
	switch strategy {
	case "lexical":
		return NewLexical(cfg), nil
	case "similarity":
		return NewSimilarity(cfg), nil
	default:
		return nil, fmt.Errorf("unknown severity strategy %q", strategy)
	}
}

// ========================================
// Lexical
// ========================================

// Lexical sums keyword points. Each keyword present adds its full value once,
// and keywords overlap freely ("award" contains "war").
type Lexical struct {
	points []macroconfig.KeywordPoint
	floor  float64
	max    float64
}

// NewLexical copies the keyword point table out of cfg
func NewLexical(cfg *macroconfig.Config) *Lexical {
	return &Lexical{
		points: append([]macroconfig.KeywordPoint(nil), cfg.Severity.KeywordPoints...),
		floor:  cfg.Severity.LexicalFloor,
		max:    cfg.Severity.Max,
	}
}

// Score implements Scorer. Classification and horizon do not affect the lexical variant.
func (l *Lexical) Score(headline string, _ contracts.ClassificationResult, _ float64) float64 {
	text := strings.ToLower(headline)

	total := 0.0
	for _, kp := range l.points {
		if strings.Contains(text, kp.Keyword) {
			total += kp.Points
		}
	}
	return clamp(total, l.floor, l.max)
}

// Range implements Scorer
func (l *Lexical) Range() (float64, float64) {
	return l.floor, l.max
}

// ========================================
// Similarity (horizon-aware)
// ========================================

// Similarity derives severity from the primary similarity score.
// Adjustments apply in a fixed order: secondary → sentiment → horizon → clamp.
type Similarity struct {
	params    macroconfig.SimilaritySeverity
	sentiment *Sentiment
}

// NewSimilarity copies the multiplier table and sentiment lists out of cfg
func NewSimilarity(cfg *macroconfig.Config) *Similarity {
	return &Similarity{
		params:    cfg.Severity.Similarity,
		sentiment: NewSentiment(cfg),
	}
}

// Score implements Scorer
func (s *Similarity) Score(headline string, cls contracts.ClassificationResult, horizonYears float64) float64 {
	primary := 0.0
	if cls.Scores != nil {
		primary = cls.Scores.Primary
	}

	p := s.params
	severity := primary * 100

	if cls.HasSecondary() {
		severity *= p.SecondaryBoost
	}
	if s.sentiment.Score(headline) < 0 {
		severity *= p.NegativeBoost
	}

	// 장기: 노이즈 축소, 단기: 민감도 증가, [short, long] 구간은 그대로
	switch {
	case horizonYears > p.LongHorizonYears:
		severity *= p.LongHorizonFactor
	case horizonYears < p.ShortHorizonYears:
		severity *= p.ShortHorizonFactor
	}

	return clamp(severity, p.Min, p.Max)
}

// Range implements Scorer
func (s *Similarity) Range() (float64, float64) {
	return s.params.Min, s.params.Max
}

// Intensity converts severity into the rebalance scaling factor in [0, 1]
func Intensity(severity float64) float64 {
	return clamp(severity/100, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
