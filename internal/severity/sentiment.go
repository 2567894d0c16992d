package severity

import (
	"strings"

	"github.com/wonny/macromoney/internal/macroconfig"
)

// Sentiment counts positive minus negative keyword hits.
// Only the sign matters downstream: + risk-on, - risk-off.
type Sentiment struct {
	positive []string
	negative []string
}

// NewSentiment copies the keyword lists out of cfg
func NewSentiment(cfg *macroconfig.Config) *Sentiment {
	return &Sentiment{
		positive: append([]string(nil), cfg.Sentiment.Positive...),
		negative: append([]string(nil), cfg.Sentiment.Negative...),
	}
}

// Score returns the net sentiment of headline
func (s *Sentiment) Score(headline string) int {
	text := strings.ToLower(headline)

	score := 0
	for _, w := range s.positive {
		if strings.Contains(text, w) {
			score++
		}
	}
	for _, w := range s.negative {
		if strings.Contains(text, w) {
			score--
		}
	}
	return score
}

// Label renders the sign of a sentiment score
func Label(score int) string {
	switch {
	case score > 0:
		return "risk-on"
	case score < 0:
		return "risk-off"
	default:
		return "neutral"
	}
}
