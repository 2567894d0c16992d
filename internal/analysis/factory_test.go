package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/embedding"
	"github.com/wonny/macromoney/internal/macroconfig"
	"github.com/wonny/macromoney/pkg/config"
)

func TestNewFromConfig_Lexical(t *testing.T) {
	appCfg := &config.Config{Strategy: config.StrategyLexical, Embedding: config.EmbeddingConfig{Provider: config.ProviderNone}}

	a, err := NewFromConfig(context.Background(), appCfg, macroconfig.MustDefault(), embedding.Deps{})
	require.NoError(t, err)
	assert.Equal(t, config.StrategyLexical, a.Strategy())
	require.NoError(t, a.Prepare(context.Background()))

	res, err := a.Analyze(context.Background(), contracts.AnalysisRequest{
		Headline:     "Apple launches new iPhone",
		Weights:      contracts.DefaultPortfolio(),
		HorizonYears: 5,
		Capital:      10000,
	})
	require.NoError(t, err)
	assert.Equal(t, contracts.TierMicro, res.Classification.Tier)
}

func TestNewFromConfig_SimilarityWithoutProvider(t *testing.T) {
	appCfg := &config.Config{
		Strategy:  config.StrategySimilarity,
		Embedding: config.EmbeddingConfig{Provider: config.ProviderNone, Timeout: time.Second},
	}

	_, err := NewFromConfig(context.Background(), appCfg, macroconfig.MustDefault(), embedding.Deps{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, embedding.ErrNoProvider))
}
