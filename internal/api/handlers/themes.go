package handlers

import (
	"net/http"

	"github.com/wonny/macromoney/internal/macroconfig"
)

// ThemesHandler exposes the loaded taxonomy (read-only)
type ThemesHandler struct {
	taxonomy *macroconfig.Config
	snapshot *macroconfig.DecisionSnapshot
}

// NewThemesHandler creates a new themes handler
func NewThemesHandler(taxonomy *macroconfig.Config) (*ThemesHandler, error) {
	snapshot, err := macroconfig.NewDecisionSnapshot(taxonomy)
	if err != nil {
		return nil, err
	}
	return &ThemesHandler{taxonomy: taxonomy, snapshot: snapshot}, nil
}

// ThemesResponse lists themes, gate brackets and rebalance rules
type ThemesResponse struct {
	Snapshot    *macroconfig.DecisionSnapshot `json:"snapshot"`
	Assets      []string                      `json:"assets"`
	MacroThemes []macroconfig.Theme           `json:"macro_themes"`
	MicroThemes []macroconfig.Theme           `json:"micro_themes"`
	Brackets    []macroconfig.Bracket         `json:"gate_brackets"`
	Rules       []macroconfig.Rule            `json:"rules"`
	Warnings    []macroconfig.Warning         `json:"warnings,omitempty"`
}

// GetThemes returns the taxonomy in use
// GET /api/themes
func (h *ThemesHandler) GetThemes(w http.ResponseWriter, r *http.Request) {
	t := h.taxonomy
	respondJSON(w, http.StatusOK, ThemesResponse{
		Snapshot:    h.snapshot,
		Assets:      t.Assets,
		MacroThemes: t.MacroThemes,
		MicroThemes: t.MicroThemes,
		Brackets:    t.Gate.Brackets,
		Rules:       t.Rebalance.Rules,
		Warnings:    macroconfig.Warn(t),
	})
}
