package macroconfig

import (
	"time"

	"github.com/wonny/macromoney/internal/contracts"
)

// Config is the static taxonomy: keyword sets, theme descriptions, severity weights,
// gate brackets and the rebalance rule table.
// ⭐ SSOT: 로드 후 절대 수정하지 않음 (컴포넌트는 생성 시 필요한 값을 복사)
type Config struct {
	Meta               Meta       `yaml:"meta" json:"meta"`
	Assets             []string   `yaml:"assets" json:"assets"`
	Limits             Limits     `yaml:"limits" json:"limits"`
	IrrelevantKeywords []string   `yaml:"irrelevant_keywords" json:"irrelevant_keywords"`
	MicroThemes        []Theme    `yaml:"micro_themes" json:"micro_themes"`
	MacroThemes        []Theme    `yaml:"macro_themes" json:"macro_themes"`
	Classifier         Classifier `yaml:"classifier" json:"classifier"`
	Severity           Severity   `yaml:"severity" json:"severity"`
	Sentiment          Sentiment  `yaml:"sentiment" json:"sentiment"`
	Gate               Gate       `yaml:"gate" json:"gate"`
	Rebalance          RuleTable  `yaml:"rebalance" json:"rebalance"`
}

// Meta identifies the taxonomy document
type Meta struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Limits bounds presentation-layer inputs
type Limits struct {
	MaxHorizonYears float64 `yaml:"max_horizon_years" json:"max_horizon_years"`
	MinCapital      float64 `yaml:"min_capital" json:"min_capital"`
}

// Theme is one entry of the taxonomy.
// Keywords drive the lexical strategy, Description drives the similarity strategy.
type Theme struct {
	ID          contracts.ThemeID `yaml:"id" json:"id"`
	Keywords    []string          `yaml:"keywords" json:"keywords,omitempty"`
	Description string            `yaml:"description" json:"description,omitempty"`
}

// Classifier holds similarity-strategy parameters
type Classifier struct {
	SecondaryRatio float64 `yaml:"secondary_ratio" json:"secondary_ratio"`
}

// Severity holds both scorer variants
type Severity struct {
	Max           float64            `yaml:"max" json:"max"`
	LexicalFloor  float64            `yaml:"lexical_floor" json:"lexical_floor"`
	KeywordPoints []KeywordPoint     `yaml:"keyword_points" json:"keyword_points"`
	Similarity    SimilaritySeverity `yaml:"similarity" json:"similarity"`
}

// KeywordPoint is a severity keyword and its point value
type KeywordPoint struct {
	Keyword string  `yaml:"keyword" json:"keyword"`
	Points  float64 `yaml:"points" json:"points"`
}

// SimilaritySeverity holds the multiplicative adjustments (applied in field order)
type SimilaritySeverity struct {
	SecondaryBoost     float64 `yaml:"secondary_boost" json:"secondary_boost"`
	NegativeBoost      float64 `yaml:"negative_boost" json:"negative_boost"`
	LongHorizonYears   float64 `yaml:"long_horizon_years" json:"long_horizon_years"`
	LongHorizonFactor  float64 `yaml:"long_horizon_factor" json:"long_horizon_factor"`
	ShortHorizonYears  float64 `yaml:"short_horizon_years" json:"short_horizon_years"`
	ShortHorizonFactor float64 `yaml:"short_horizon_factor" json:"short_horizon_factor"`
	Min                float64 `yaml:"min" json:"min"`
	Max                float64 `yaml:"max" json:"max"`
}

// Sentiment keyword lists
type Sentiment struct {
	Positive []string `yaml:"positive" json:"positive"`
	Negative []string `yaml:"negative" json:"negative"`
}

// Gate holds the horizon brackets in ascending order
type Gate struct {
	Brackets []Bracket `yaml:"brackets" json:"brackets"`
}

// Bracket applies to horizons up to MaxHorizonYears (inclusive).
// MaxHorizonYears = 0 marks the open-ended last bracket.
type Bracket struct {
	MaxHorizonYears float64 `yaml:"max_horizon_years" json:"max_horizon_years"`
	MinSeverity     float64 `yaml:"min_severity" json:"min_severity"`
}

// IsOpenEnded reports whether the bracket has no upper bound
func (b Bracket) IsOpenEnded() bool {
	return b.MaxHorizonYears == 0
}

// RuleTable is the rule table section
type RuleTable struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Rule is the ordered set of signed percentage-point deltas for a theme
type Rule struct {
	Theme  contracts.ThemeID `yaml:"theme" json:"theme"`
	Deltas []Delta           `yaml:"deltas" json:"deltas"`
}

// Delta is one (asset, signed delta) pair
type Delta struct {
	Asset string  `yaml:"asset" json:"asset"`
	Delta float64 `yaml:"delta" json:"delta"`
}

// DecisionSnapshot records which taxonomy produced a result
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}

// ========================================
// Read-only lookups
// ========================================

// MacroTheme returns the macro theme with the given id
func (c *Config) MacroTheme(id contracts.ThemeID) (Theme, bool) {
	for _, t := range c.MacroThemes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// RuleFor returns a copy of the theme's deltas. ok is false when the theme has no rule.
func (c *Config) RuleFor(id contracts.ThemeID) ([]Delta, bool) {
	for _, r := range c.Rebalance.Rules {
		if r.Theme == id {
			out := make([]Delta, len(r.Deltas))
			copy(out, r.Deltas)
			return out, true
		}
	}
	return nil, false
}

// LexicalMacroThemes returns macro themes that carry keywords, in enumeration order
func (c *Config) LexicalMacroThemes() []Theme {
	out := make([]Theme, 0, len(c.MacroThemes))
	for _, t := range c.MacroThemes {
		if len(t.Keywords) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// DescribedThemes returns macro themes that carry a description, in enumeration order
func (c *Config) DescribedThemes() []Theme {
	out := make([]Theme, 0, len(c.MacroThemes))
	for _, t := range c.MacroThemes {
		if t.Description != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasAsset reports whether the asset is part of the configured universe
func (c *Config) HasAsset(asset string) bool {
	for _, a := range c.Assets {
		if a == asset {
			return true
		}
	}
	return false
}
