// Package classifier maps a headline to a theme and classification tier.
package classifier

import (
	"context"
	"fmt"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/macroconfig"
	"github.com/wonny/macromoney/pkg/logger"
)

// Strategy names
const (
	StrategyLexical    = "lexical"
	StrategySimilarity = "similarity"
)

// Classifier is the theme classification contract
// ⭐ SSOT: 두 전략 (lexical / similarity) 모두 이 인터페이스 뒤에 위치
type Classifier interface {
	Classify(ctx context.Context, headline string) (contracts.ClassificationResult, error)
	Strategy() string
}

// New builds the classifier for the named strategy.
// embedder is required for similarity and ignored for lexical.
func New(strategy string, cfg *macroconfig.Config, embedder contracts.Embedder, log *logger.Logger) (Classifier, error) {
	switch strategy {
	case StrategyLexical:
		return NewLexical(cfg), nil
	case StrategySimilarity:
		if embedder == nil {
			return nil, fmt.Errorf("similarity strategy requires an embedder")
		}
		return NewSimilarity(cfg, embedder, log), nil
	default:
		return nil, fmt.Errorf("unknown classifier strategy %q", strategy)
	}
}
