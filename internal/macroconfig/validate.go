package macroconfig

import (
	"fmt"
	"strings"

	"github.com/wonny/macromoney/internal/contracts"
)

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validate checks all required constraints
// 실패 시 error 반환 (로드 중단)
func Validate(cfg *Config) error {
	// === Assets ===
	if len(cfg.Assets) == 0 {
		return ValidationError{"assets", "required"}
	}
	if dup := firstDuplicate(cfg.Assets); dup != "" {
		return ValidationError{"assets", fmt.Sprintf("duplicate asset %q", dup)}
	}

	// === Limits ===
	if cfg.Limits.MaxHorizonYears <= 0 {
		return ValidationError{"limits.max_horizon_years", "must be > 0"}
	}
	if cfg.Limits.MinCapital < 0 {
		return ValidationError{"limits.min_capital", "must be >= 0"}
	}

	// === Keyword sets ===
	if len(cfg.IrrelevantKeywords) == 0 {
		return ValidationError{"irrelevant_keywords", "required"}
	}
	if err := validateKeywords("irrelevant_keywords", cfg.IrrelevantKeywords); err != nil {
		return err
	}

	seen := make(map[contracts.ThemeID]string)
	for i, t := range cfg.MicroThemes {
		field := fmt.Sprintf("micro_themes[%d]", i)
		if err := validateThemeID(field, t.ID, seen); err != nil {
			return err
		}
		if len(t.Keywords) == 0 {
			return ValidationError{field + ".keywords", "required"}
		}
		if err := validateKeywords(field+".keywords", t.Keywords); err != nil {
			return err
		}
	}

	if len(cfg.MacroThemes) == 0 {
		return ValidationError{"macro_themes", "required"}
	}
	for i, t := range cfg.MacroThemes {
		field := fmt.Sprintf("macro_themes[%d]", i)
		if err := validateThemeID(field, t.ID, seen); err != nil {
			return err
		}
		// 키워드 또는 설명 중 하나는 필수
		if len(t.Keywords) == 0 && strings.TrimSpace(t.Description) == "" {
			return ValidationError{field, "keywords or description required"}
		}
		if err := validateKeywords(field+".keywords", t.Keywords); err != nil {
			return err
		}
	}

	// === Classifier ===
	if cfg.Classifier.SecondaryRatio <= 0 || cfg.Classifier.SecondaryRatio > 1 {
		return ValidationError{"classifier.secondary_ratio", "must be in (0, 1]"}
	}

	// === Severity ===
	sev := cfg.Severity
	if sev.Max <= 0 || sev.Max > 100 {
		return ValidationError{"severity.max", "must be in (0, 100]"}
	}
	if sev.LexicalFloor < 0 || sev.LexicalFloor > sev.Max {
		return ValidationError{"severity.lexical_floor", "must be in [0, severity.max]"}
	}
	if len(sev.KeywordPoints) == 0 {
		return ValidationError{"severity.keyword_points", "required"}
	}
	for i, kp := range sev.KeywordPoints {
		field := fmt.Sprintf("severity.keyword_points[%d]", i)
		if strings.TrimSpace(kp.Keyword) == "" {
			return ValidationError{field + ".keyword", "required"}
		}
		if kp.Keyword != strings.ToLower(kp.Keyword) {
			return ValidationError{field + ".keyword", "must be lower-case"}
		}
		if kp.Points <= 0 {
			return ValidationError{field + ".points", "must be > 0"}
		}
	}

	sim := sev.Similarity
	if sim.Min < 0 || sim.Max > 100 || sim.Min > sim.Max {
		return ValidationError{"severity.similarity", "min/max must satisfy 0 <= min <= max <= 100"}
	}
	if sim.SecondaryBoost <= 0 || sim.NegativeBoost <= 0 || sim.LongHorizonFactor <= 0 || sim.ShortHorizonFactor <= 0 {
		return ValidationError{"severity.similarity", "multipliers must be > 0"}
	}
	if sim.ShortHorizonYears > sim.LongHorizonYears {
		return ValidationError{"severity.similarity", "short_horizon_years must be <= long_horizon_years"}
	}

	// === Sentiment ===
	if err := validateKeywords("sentiment.positive", cfg.Sentiment.Positive); err != nil {
		return err
	}
	if err := validateKeywords("sentiment.negative", cfg.Sentiment.Negative); err != nil {
		return err
	}

	// === Gate ===
	if err := validateBrackets(cfg.Gate.Brackets, sev.Max); err != nil {
		return err
	}

	// === Rebalance rules ===
	ruleSeen := make(map[contracts.ThemeID]bool)
	for i, r := range cfg.Rebalance.Rules {
		field := fmt.Sprintf("rebalance.rules[%d]", i)
		if _, ok := cfg.MacroTheme(r.Theme); !ok {
			return ValidationError{field + ".theme", fmt.Sprintf("unknown macro theme %q", r.Theme)}
		}
		if ruleSeen[r.Theme] {
			return ValidationError{field + ".theme", fmt.Sprintf("duplicate rule for %q", r.Theme)}
		}
		ruleSeen[r.Theme] = true

		if len(r.Deltas) == 0 {
			return ValidationError{field + ".deltas", "required"}
		}
		assetSeen := make(map[string]bool)
		for j, d := range r.Deltas {
			if !cfg.HasAsset(d.Asset) {
				return ValidationError{fmt.Sprintf("%s.deltas[%d].asset", field, j), fmt.Sprintf("unknown asset %q", d.Asset)}
			}
			if assetSeen[d.Asset] {
				return ValidationError{fmt.Sprintf("%s.deltas[%d].asset", field, j), fmt.Sprintf("duplicate asset %q", d.Asset)}
			}
			assetSeen[d.Asset] = true
		}
	}

	return nil
}

// Warn returns non-fatal issues
// 경고는 로드를 막지 않음 (taxonomy check 출력용)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	for _, t := range cfg.MacroThemes {
		if len(t.Keywords) == 0 {
			warnings = append(warnings, Warning{
				Code:    "LEXICAL_UNREACHABLE",
				Message: fmt.Sprintf("macro theme %s has no keywords (similarity strategy only)", t.ID),
			})
		}
		if t.Description == "" {
			warnings = append(warnings, Warning{
				Code:    "SIMILARITY_UNREACHABLE",
				Message: fmt.Sprintf("macro theme %s has no description (lexical strategy only)", t.ID),
			})
		}
		if _, ok := cfg.RuleFor(t.ID); !ok {
			warnings = append(warnings, Warning{
				Code:    "NO_RULE",
				Message: fmt.Sprintf("macro theme %s has no rebalance rule", t.ID),
			})
		}
	}

	// 첫 구간 임계값이 lexical floor 이하 → 모든 매크로 헤드라인이 단기 구간에서 통과
	if len(cfg.Gate.Brackets) > 0 && cfg.Severity.LexicalFloor >= cfg.Gate.Brackets[0].MinSeverity {
		warnings = append(warnings, Warning{
			Code:    "FLOOR_PASSES_GATE",
			Message: fmt.Sprintf("lexical_floor %.0f always passes the first gate bracket", cfg.Severity.LexicalFloor),
		})
	}

	if len(cfg.Sentiment.Positive) == 0 || len(cfg.Sentiment.Negative) == 0 {
		warnings = append(warnings, Warning{
			Code:    "SENTIMENT_ONE_SIDED",
			Message: "sentiment lists should carry both positive and negative keywords",
		})
	}

	return warnings
}

func validateThemeID(field string, id contracts.ThemeID, seen map[contracts.ThemeID]string) error {
	if id == "" {
		return ValidationError{field + ".id", "required"}
	}
	if prev, ok := seen[id]; ok {
		return ValidationError{field + ".id", fmt.Sprintf("duplicate theme id %q (first defined at %s)", id, prev)}
	}
	seen[id] = field
	return nil
}

// validateKeywords: 비교는 소문자 substring 기준이므로 키워드도 소문자여야 함
func validateKeywords(field string, keywords []string) error {
	for i, k := range keywords {
		if strings.TrimSpace(k) == "" {
			return ValidationError{fmt.Sprintf("%s[%d]", field, i), "empty keyword"}
		}
		if k != strings.ToLower(k) {
			return ValidationError{fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("keyword %q must be lower-case", k)}
		}
	}
	return nil
}

func validateBrackets(brackets []Bracket, maxSeverity float64) error {
	if len(brackets) == 0 {
		return ValidationError{"gate.brackets", "required"}
	}

	prev := 0.0
	for i, b := range brackets {
		field := fmt.Sprintf("gate.brackets[%d]", i)
		last := i == len(brackets)-1

		if b.IsOpenEnded() != last {
			return ValidationError{field + ".max_horizon_years", "only the last bracket may (and must) be open-ended (0)"}
		}
		if !last {
			if b.MaxHorizonYears <= prev {
				return ValidationError{field + ".max_horizon_years", "must be strictly increasing"}
			}
			prev = b.MaxHorizonYears
		}
		if b.MinSeverity < 0 || b.MinSeverity > maxSeverity {
			return ValidationError{field + ".min_severity", fmt.Sprintf("must be in [0, %.0f]", maxSeverity)}
		}
	}
	return nil
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return v
		}
		seen[v] = true
	}
	return ""
}
