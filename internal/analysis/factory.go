package analysis

import (
	"context"
	"fmt"

	"github.com/wonny/macromoney/internal/classifier"
	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/embedding"
	"github.com/wonny/macromoney/internal/macroconfig"
	"github.com/wonny/macromoney/pkg/config"
)

// NewFromConfig builds an Analyzer for appCfg.Strategy.
// The embedding chain is only constructed for the similarity strategy.
func NewFromConfig(ctx context.Context, appCfg *config.Config, taxonomy *macroconfig.Config, deps embedding.Deps) (*Analyzer, error) {
	var embedder contracts.Embedder
	if appCfg.Strategy == config.StrategySimilarity {
		p, err := embedding.New(ctx, appCfg, deps)
		if err != nil {
			return nil, fmt.Errorf("embedding provider: %w", err)
		}
		embedder = p
	}

	cls, err := classifier.New(appCfg.Strategy, taxonomy, embedder, deps.Logger)
	if err != nil {
		return nil, err
	}

	return New(taxonomy, cls, Options{Metrics: deps.Metrics, Logger: deps.Logger})
}
