package contracts

// Tier is the classification breadth of a headline
type Tier string

const (
	TierIrrelevant Tier = "irrelevant"
	TierMicro      Tier = "micro"
	TierMacro      Tier = "macro"
)

// ThemeID identifies a theme in the taxonomy (e.g. interest_rate, energy)
type ThemeID string

// String implements fmt.Stringer
func (t ThemeID) String() string {
	return string(t)
}

// SimilarityScores carries cosine scores from the similarity strategy
type SimilarityScores struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary,omitempty"`
}

// ClassificationResult is the output of the theme classifier.
// Produced once per analysis and never persisted.
type ClassificationResult struct {
	Tier      Tier              `json:"tier"`
	Theme     ThemeID           `json:"theme,omitempty"`
	Secondary ThemeID           `json:"secondary_theme,omitempty"`
	Keyword   string            `json:"keyword,omitempty"` // lexical only: the keyword that matched
	Reason    string            `json:"reason,omitempty"`
	Scores    *SimilarityScores `json:"scores,omitempty"`
}

// HasSecondary reports whether a secondary theme qualified
func (r ClassificationResult) HasSecondary() bool {
	return r.Secondary != ""
}

// IsActionable reports whether the tier can lead to a rebalance
func (r ClassificationResult) IsActionable() bool {
	return r.Tier == TierMacro && r.Theme != ""
}
