package models

import (
	"math"
	"testing"

	"github.com/picogrid/drone-risk-engine/pkg/geo"
	"github.com/picogrid/drone-risk-engine/pkg/risk"
)

func TestNewTarget(t *testing.T) {
	def := TargetDefinition{
		ID:    "t1",
		Track: geo.Track{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 1}},
		Indicators: risk.Indicators{
			risk.InNoFlyZone: true,
			risk.MissingRID:  true,
		},
		ActionOutcomes: map[string]string{"simDetach": "detached"},
	}

	target, err := NewTarget(def, risk.NewScorer())
	if err != nil {
		t.Fatalf("Failed to build target: %v", err)
	}

	if target.CallSign != "UAS-T1" {
		t.Errorf("Expected derived call sign 'UAS-T1', got '%s'", target.CallSign)
	}
	if target.RiskScore != 45 {
		t.Errorf("Expected risk score 45, got %d", target.RiskScore)
	}
	if target.RiskLevel != risk.LevelMedium {
		t.Errorf("Expected Medium risk, got %s", target.RiskLevel)
	}
	if math.Abs(target.Heading-90) > 1e-6 {
		t.Errorf("Expected heading 90, got %f", target.Heading)
	}
	if target.Position() != (geo.Position{Latitude: 0, Longitude: 1}) {
		t.Errorf("Expected current position 0,1, got %v", target.Position())
	}
	if target.LaunchPosition() != (geo.Position{}) {
		t.Errorf("Expected launch position 0,0, got %v", target.LaunchPosition())
	}

	// the definition map must not leak into the target
	def.ActionOutcomes["simDetach"] = "tampered"
	if tag, _ := target.Outcome("simDetach"); tag != "detached" {
		t.Errorf("Expected outcome table to be immutable, got '%s'", tag)
	}
	if _, ok := target.Outcome("report"); ok {
		t.Errorf("Expected no outcome for report")
	}
}

func TestNewTargetKeepsExplicitCallSign(t *testing.T) {
	target, err := NewTarget(TargetDefinition{
		ID:       "t2",
		CallSign: "Falcon",
		Track:    geo.Track{{Latitude: 1, Longitude: 1}},
	}, risk.NewScorer())
	if err != nil {
		t.Fatalf("Failed to build target: %v", err)
	}

	if target.CallSign != "Falcon" {
		t.Errorf("Expected call sign 'Falcon', got '%s'", target.CallSign)
	}
	if target.Heading != 0 {
		t.Errorf("Expected heading 0 for single point track, got %f", target.Heading)
	}
}

func TestNewTargetRejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  TargetDefinition
	}{
		{name: "missing id", def: TargetDefinition{Track: geo.Track{{}}}},
		{name: "empty track", def: TargetDefinition{ID: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTarget(tt.def, risk.NewScorer()); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}
