package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/macromoney/internal/contracts"
	"github.com/wonny/macromoney/internal/macroconfig"
)

// Reasons reported for non-actionable lexical outcomes
const (
	ReasonNotMarketAffecting = "Not market-affecting"
	ReasonNoSignal           = "No macro/micro signals detected"
)

type keywordSet struct {
	id       contracts.ThemeID
	keywords []string
}

// Lexical is the deterministic keyword classifier.
// Evaluation order: irrelevant → micro → macro, first substring match wins.
type Lexical struct {
	irrelevant []string
	micro      []keywordSet
	macro      []keywordSet
}

// NewLexical copies the keyword sets it needs out of cfg
func NewLexical(cfg *macroconfig.Config) *Lexical {
	l := &Lexical{
		irrelevant: append([]string(nil), cfg.IrrelevantKeywords...),
	}
	for _, t := range cfg.MicroThemes {
		l.micro = append(l.micro, keywordSet{id: t.ID, keywords: append([]string(nil), t.Keywords...)})
	}
	for _, t := range cfg.LexicalMacroThemes() {
		l.macro = append(l.macro, keywordSet{id: t.ID, keywords: append([]string(nil), t.Keywords...)})
	}
	return l
}

// Strategy implements Classifier
func (l *Lexical) Strategy() string {
	return StrategyLexical
}

// Classify implements Classifier. It never fails.
func (l *Lexical) Classify(_ context.Context, headline string) (contracts.ClassificationResult, error) {
	text := strings.ToLower(headline)

	// 1. 무관 키워드가 최우선
	for _, kw := range l.irrelevant {
		if strings.Contains(text, kw) {
			return contracts.ClassificationResult{
				Tier:    contracts.TierIrrelevant,
				Keyword: kw,
				Reason:  ReasonNotMarketAffecting,
			}, nil
		}
	}

	// 2. micro (earnings → company_specific → sector_only)
	if id, kw, ok := firstMatch(l.micro, text); ok {
		return contracts.ClassificationResult{
			Tier:    contracts.TierMicro,
			Theme:   id,
			Keyword: kw,
			Reason:  fmt.Sprintf("micro-level event (%s)", id),
		}, nil
	}

	// 3. macro (열거 순서대로)
	if id, kw, ok := firstMatch(l.macro, text); ok {
		return contracts.ClassificationResult{
			Tier:    contracts.TierMacro,
			Theme:   id,
			Keyword: kw,
			Reason:  fmt.Sprintf("matched macro keyword %q", kw),
		}, nil
	}

	return contracts.ClassificationResult{
		Tier:   contracts.TierIrrelevant,
		Reason: ReasonNoSignal,
	}, nil
}

func firstMatch(sets []keywordSet, text string) (contracts.ThemeID, string, bool) {
	for _, set := range sets {
		for _, kw := range set.keywords {
			if strings.Contains(text, kw) {
				return set.id, kw, true
			}
		}
	}
	return "", "", false
}
