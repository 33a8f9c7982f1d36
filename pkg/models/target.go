package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/picogrid/drone-risk-engine/pkg/geo"
	"github.com/picogrid/drone-risk-engine/pkg/risk"
)

// TargetDefinition is the configuration input for one tracked drone
type TargetDefinition struct {
	ID             string            `yaml:"id" json:"id" koanf:"id"`
	CallSign       string            `yaml:"callSign,omitempty" json:"callSign,omitempty" koanf:"callSign"`
	Track          geo.Track         `yaml:"track" json:"track" koanf:"track"`
	Indicators     risk.Indicators   `yaml:"indicators" json:"indicators" koanf:"indicators"`
	ActionOutcomes map[string]string `yaml:"actionOutcomes" json:"actionOutcomes" koanf:"actionOutcomes"`
}

// Target is a tracked drone with its derived risk and heading. The derived
// fields and the outcome table are fixed once the target is built.
type Target struct {
	ID         string
	CallSign   string
	Track      geo.Track
	Indicators risk.Indicators
	RiskScore  int
	RiskLevel  risk.Level
	Heading    float64

	outcomes map[string]string
}

// DeriveCallSign builds the display name used when a definition has none
func DeriveCallSign(id string) string {
	return "UAS-" + strings.ToUpper(id)
}

// NewTarget builds a target from its definition, deriving score, level,
// heading and call sign.
func NewTarget(def TargetDefinition, scorer *risk.Scorer) (*Target, error) {
	if def.ID == "" {
		return nil, fmt.Errorf("target id is required")
	}
	if len(def.Track) == 0 {
		return nil, fmt.Errorf("target %s: track must contain at least one point", def.ID)
	}

	callSign := def.CallSign
	if callSign == "" {
		callSign = DeriveCallSign(def.ID)
	}

	track := make(geo.Track, len(def.Track))
	copy(track, def.Track)

	indicators := make(risk.Indicators, len(def.Indicators))
	for k, v := range def.Indicators {
		indicators[k] = v
	}

	outcomes := make(map[string]string, len(def.ActionOutcomes))
	for k, v := range def.ActionOutcomes {
		outcomes[k] = v
	}

	assessment := scorer.Assess(indicators)

	return &Target{
		ID:         def.ID,
		CallSign:   callSign,
		Track:      track,
		Indicators: indicators,
		RiskScore:  assessment.Score,
		RiskLevel:  assessment.Level,
		Heading:    geo.HeadingFromTrack(track),
		outcomes:   outcomes,
	}, nil
}

// Position returns the current (last) position of the target
func (t *Target) Position() geo.Position {
	p, _ := t.Track.Current()
	return p
}

// LaunchPosition returns the first position of the target
func (t *Target) LaunchPosition() geo.Position {
	p, _ := t.Track.Launch()
	return p
}

// Outcome returns the predetermined outcome tag for an action
func (t *Target) Outcome(actionKey string) (string, bool) {
	tag, ok := t.outcomes[actionKey]
	return tag, ok
}

// OutcomeKeys returns the action keys present in the outcome table, sorted
func (t *Target) OutcomeKeys() []string {
	keys := make([]string, 0, len(t.outcomes))
	for k := range t.outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
