package gate

import (
	"fmt"
	"testing"

	"github.com/wonny/macromoney/internal/macroconfig"
)

func TestHorizonGate_ShouldRebalance(t *testing.T) {
	g := New(macroconfig.MustDefault())

	tests := []struct {
		severity float64
		horizon  float64
		want     bool
	}{
		// 경계값
		{20, 1.0, true},
		{19.99, 1.0, false},
		{40, 2.0, true},
		{69.99, 5.0, false},
		{70, 5.0, true},

		{20, 0.1, true},
		{39.99, 3.0, false},
		{40, 3.0, true},
		{40, 1.01, true},
		{39, 1.01, false},
		{69, 3.01, false},
		{100, 30, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("sev=%.2f/h=%.2f", tt.severity, tt.horizon), func(t *testing.T) {
			if got := g.ShouldRebalance(tt.severity, tt.horizon); got != tt.want {
				t.Errorf("ShouldRebalance(%v, %v) = %v, want %v", tt.severity, tt.horizon, got, tt.want)
			}
		})
	}
}

func TestHorizonGate_Threshold(t *testing.T) {
	g := New(macroconfig.MustDefault())

	tests := []struct {
		horizon float64
		want    float64
	}{
		{0.5, 20},
		{1, 20},
		{1.5, 40},
		{3, 40},
		{3.5, 70},
		{30, 70},
	}

	for _, tt := range tests {
		if got := g.Threshold(tt.horizon); got != tt.want {
			t.Errorf("Threshold(%v) = %v, want %v", tt.horizon, got, tt.want)
		}
	}
}

func TestHorizonGate_Evaluate(t *testing.T) {
	g := New(macroconfig.MustDefault())

	d := g.Evaluate(35, 2)
	if !d.Evaluated || d.Passed || d.Threshold != 40 {
		t.Errorf("Evaluate(35, 2) = %+v", d)
	}

	d = g.Evaluate(35, 1)
	if !d.Passed || d.Threshold != 20 {
		t.Errorf("Evaluate(35, 1) = %+v", d)
	}
}

func TestHorizonGate_CustomBrackets(t *testing.T) {
	cfg := macroconfig.MustDefault()
	cfg.Gate.Brackets = []macroconfig.Bracket{
		{MaxHorizonYears: 2, MinSeverity: 10},
		{MinSeverity: 90},
	}
	g := New(cfg)

	if g.Threshold(2) != 10 || g.Threshold(2.5) != 90 {
		t.Errorf("custom brackets not honored: %v / %v", g.Threshold(2), g.Threshold(2.5))
	}
}
