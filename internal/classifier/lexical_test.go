package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/macroconfig"
)

func TestLexical_Classify(t *testing.T) {
	l := NewLexical(macroconfig.MustDefault())

	tests := []struct {
		name      string
		headline  string
		wantTier  contracts.Tier
		wantTheme contracts.ThemeID
		wantKW    string
	}{
		{"irrelevant wins over macro", "Fed hikes rates amid celebrity gossip", contracts.TierIrrelevant, "", "celebrity"},
		{"irrelevant festival", "Local celebrity wins award at film festival", contracts.TierIrrelevant, "", "celebrity"},
		{"micro earnings", "Company X reports record quarterly earnings", contracts.TierMicro, "earnings", "earnings"},
		{"micro before macro", "Oil major beats revenue estimates", contracts.TierMicro, "earnings", "revenue"},
		{"macro interest rate via fed", "Federal Reserve raises rates by 0.5%", contracts.TierMacro, "interest_rate", "fed"},
		{"enumeration order beats best match", "Oil prices surge as inflation fears grow", contracts.TierMacro, "interest_rate", "inflation"},
		{"energy", "OPEC cuts crude output", contracts.TierMacro, "energy", "opec"},
		{"geopolitical", "Missile strike escalates border tension", contracts.TierMacro, "geopolitical", "border"},
		{"crypto", "Bitcoin breaks new record", contracts.TierMacro, "crypto", "bitcoin"},
		{"political shock", "Prime minister announces resignation", contracts.TierMacro, "political_shock", "prime minister"},
		{"case insensitive", "UNEMPLOYMENT JUMPS", contracts.TierMacro, "labor", "unemployment"},
		{"no signal", "Nothing to see here", contracts.TierIrrelevant, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Classify(context.Background(), tt.headline)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantTheme, got.Theme)
			assert.Equal(t, tt.wantKW, got.Keyword)
			assert.Nil(t, got.Scores)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestLexical_Reasons(t *testing.T) {
	l := NewLexical(macroconfig.MustDefault())

	got, _ := l.Classify(context.Background(), "Heavy weather expected")
	assert.Equal(t, ReasonNotMarketAffecting, got.Reason)

	got, _ = l.Classify(context.Background(), "Quiet day")
	assert.Equal(t, ReasonNoSignal, got.Reason)
}

func TestLexical_CommoditiesNotReachable(t *testing.T) {
	l := NewLexical(macroconfig.MustDefault())

	// commodities는 키워드가 없음 → lexical로는 도달 불가
	got, _ := l.Classify(context.Background(), "Gold and silver climb")
	assert.NotEqual(t, contracts.ThemeID("commodities"), got.Theme)
}

func TestLexical_CopiesConfig(t *testing.T) {
	cfg := macroconfig.MustDefault()
	l := NewLexical(cfg)

	cfg.IrrelevantKeywords[0] = "fed"

	got, _ := l.Classify(context.Background(), "Fed raises rates")
	assert.Equal(t, contracts.TierMacro, got.Tier)
}

func TestNew(t *testing.T) {
	cfg := macroconfig.MustDefault()

	c, err := New(StrategyLexical, cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, StrategyLexical, c.Strategy())

	_, err = New(StrategySimilarity, cfg, nil, nil)
	assert.Error(t, err)

	c, err = New(StrategySimilarity, cfg, newFakeEmbedder(cfg), nil)
	require.NoError(t, err)
	assert.Equal(t, StrategySimilarity, c.Strategy())

	_, err = New("bayesian", cfg, nil, nil)
	assert.Error(t, err)
}
