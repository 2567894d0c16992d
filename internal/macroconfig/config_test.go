package macroconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/macromoney/internal/contracts"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"Equities", "Bonds", "ETFs", "Crypto", "Commodities"}, cfg.Assets)
	assert.Len(t, cfg.IrrelevantKeywords, 8)
	assert.Equal(t, 0.75, cfg.Classifier.SecondaryRatio)
	assert.Equal(t, 0.0, cfg.Severity.LexicalFloor)
	assert.Equal(t, 30.0, cfg.Limits.MaxHorizonYears)
}

func TestDefault_MacroThemeOrder(t *testing.T) {
	cfg := MustDefault()

	var lexical []contracts.ThemeID
	for _, th := range cfg.LexicalMacroThemes() {
		lexical = append(lexical, th.ID)
	}

	// 열거 순서 = 우선순위
	want := []contracts.ThemeID{
		"interest_rate", "energy", "tech", "geopolitical", "fiscal",
		"currency", "labor", "crypto", "political_shock",
	}
	assert.Equal(t, want, lexical)

	// commodities는 similarity 전용
	described := cfg.DescribedThemes()
	assert.Len(t, described, 10)
	assert.Equal(t, contracts.ThemeID("commodities"), described[9].ID)
}

func TestDefault_MicroThemeOrder(t *testing.T) {
	cfg := MustDefault()

	require.Len(t, cfg.MicroThemes, 3)
	assert.Equal(t, contracts.ThemeID("earnings"), cfg.MicroThemes[0].ID)
	assert.Equal(t, contracts.ThemeID("company_specific"), cfg.MicroThemes[1].ID)
	assert.Equal(t, contracts.ThemeID("sector_only"), cfg.MicroThemes[2].ID)
}

func TestRuleFor(t *testing.T) {
	cfg := MustDefault()

	deltas, ok := cfg.RuleFor("interest_rate")
	require.True(t, ok)
	assert.Equal(t, []Delta{{Asset: "Equities", Delta: -10}, {Asset: "Bonds", Delta: 10}}, deltas)

	// 복사본이므로 수정해도 원본 영향 없음
	deltas[0].Delta = 999
	again, _ := cfg.RuleFor("interest_rate")
	assert.Equal(t, -10.0, again[0].Delta)

	_, ok = cfg.RuleFor("earnings")
	assert.False(t, ok)
}

func TestHash(t *testing.T) {
	cfg := MustDefault()

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// 동일 설정 → 동일 해시
	other := MustDefault()
	hash2, err := Hash(other)
	require.NoError(t, err)
	assert.Equal(t, hash, hash2)

	other.Severity.LexicalFloor = 20
	hash3, _ := Hash(other)
	assert.NotEqual(t, hash, hash3)
}

func TestNewDecisionSnapshot(t *testing.T) {
	snap, err := NewDecisionSnapshot(MustDefault())
	require.NoError(t, err)

	assert.Equal(t, "macromoney_default", snap.Name)
	assert.Len(t, snap.ConfigHash, 64)
	assert.False(t, snap.CreatedAt.IsZero())
}

func TestParse_UnknownField(t *testing.T) {
	data := append(DefaultYAML(), []byte("\nunknown_section: true\n")...)

	_, err := Parse(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_section")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, DefaultYAML(), 0o644))

	cfg, raw, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "2.4.0", cfg.Meta.Version)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "macromoney_default", cfg.Meta.Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"no assets", func(c *Config) { c.Assets = nil }, "assets"},
		{"duplicate asset", func(c *Config) { c.Assets = append(c.Assets, "Bonds") }, "assets"},
		{"upper-case keyword", func(c *Config) { c.IrrelevantKeywords[0] = "Accident" }, "irrelevant_keywords[0]"},
		{"duplicate theme across tiers", func(c *Config) { c.MacroThemes[0].ID = "earnings" }, "macro_themes[0].id"},
		{"theme without keywords or description", func(c *Config) {
			c.MacroThemes[0].Keywords = nil
			c.MacroThemes[0].Description = ""
		}, "macro_themes[0]"},
		{"secondary ratio", func(c *Config) { c.Classifier.SecondaryRatio = 1.5 }, "classifier.secondary_ratio"},
		{"floor above max", func(c *Config) { c.Severity.LexicalFloor = 101 }, "severity.lexical_floor"},
		{"zero points", func(c *Config) { c.Severity.KeywordPoints[0].Points = 0 }, "severity.keyword_points[0].points"},
		{"similarity clamp inverted", func(c *Config) { c.Severity.Similarity.Min = 90; c.Severity.Similarity.Max = 50 }, "severity.similarity"},
		{"brackets not increasing", func(c *Config) { c.Gate.Brackets[1].MaxHorizonYears = 1 }, "gate.brackets[1].max_horizon_years"},
		{"open bracket not last", func(c *Config) { c.Gate.Brackets[0].MaxHorizonYears = 0 }, "gate.brackets[0].max_horizon_years"},
		{"rule for unknown theme", func(c *Config) { c.Rebalance.Rules[0].Theme = "weather" }, "rebalance.rules[0].theme"},
		{"rule for micro theme", func(c *Config) { c.Rebalance.Rules[0].Theme = "earnings" }, "rebalance.rules[0].theme"},
		{"rule for unknown asset", func(c *Config) { c.Rebalance.Rules[0].Deltas[0].Asset = "Gold" }, "rebalance.rules[0].deltas[0].asset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MustDefault()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var vErr ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %T", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestWarn(t *testing.T) {
	cfg := MustDefault()

	warnings := Warn(cfg)
	require.Len(t, warnings, 1)
	assert.Equal(t, "LEXICAL_UNREACHABLE", warnings[0].Code)
	assert.True(t, strings.Contains(warnings[0].Message, "commodities"))

	cfg.Severity.LexicalFloor = 20
	cfg.Rebalance.Rules = cfg.Rebalance.Rules[:9]
	codes := map[string]bool{}
	for _, w := range Warn(cfg) {
		codes[w.Code] = true
	}
	assert.True(t, codes["FLOOR_PASSES_GATE"])
	assert.True(t, codes["NO_RULE"])
}
