// Package mitigation resolves operator actions against each target's
// predetermined outcome table and tracks which actions have been used.
package mitigation

import (
	"errors"
	"fmt"
)

// Action keys of the canonical action set
const (
	SIMDetach      = "simDetach"
	CyberTakeover  = "cyberTakeover"
	DirectionalJam = "directionalJam"
	Report         = "report"
)

// Action defines one mitigation action and how its outcome is phrased
type Action struct {
	Key            string `yaml:"key" json:"key" koanf:"key"`
	Label          string `yaml:"label" json:"label" koanf:"label"`
	SuccessOutcome string `yaml:"successOutcome" json:"successOutcome" koanf:"successOutcome"`
	SuccessMessage string `yaml:"successMessage" json:"successMessage" koanf:"successMessage"`
	ErrorOutcome   string `yaml:"errorOutcome" json:"errorOutcome" koanf:"errorOutcome"`
	ErrorMessage   string `yaml:"errorMessage" json:"errorMessage" koanf:"errorMessage"`
}

// Succeeds reports whether an outcome tag is this action's success tag.
// Any other tag, including ErrorOutcome, is a failure.
func (a Action) Succeeds(outcome string) bool {
	return outcome == a.SuccessOutcome
}

// BaselineActions returns the three-action set without reporting
func BaselineActions() []Action {
	return []Action{
		{
			Key:            SIMDetach,
			Label:          "SIM Detach",
			SuccessOutcome: "detached",
			SuccessMessage: "SIM successfully detached from the network.",
			ErrorOutcome:   "not_detached",
			ErrorMessage:   "SIM detach rejected by carrier.",
		},
		{
			Key:            CyberTakeover,
			Label:          "Cyber Takeover",
			SuccessOutcome: "taken_over",
			SuccessMessage: "Control link taken over.",
			ErrorOutcome:   "takeover_failed",
			ErrorMessage:   "Takeover failed, control link is encrypted.",
		},
		{
			Key:            DirectionalJam,
			Label:          "Directional Jam",
			SuccessOutcome: "jammed",
			SuccessMessage: "Control link jammed.",
			ErrorOutcome:   "jam_ineffective",
			ErrorMessage:   "Jamming ineffective, drone is flying autonomously.",
		},
	}
}

// CanonicalActions returns the baseline actions plus report
func CanonicalActions() []Action {
	return append(BaselineActions(), Action{
		Key:            Report,
		Label:          "Report",
		SuccessOutcome: "reported",
		SuccessMessage: "Report filed with authorities.",
		ErrorOutcome:   "report_failed",
		ErrorMessage:   "Report could not be filed.",
	})
}

// Table is an ordered, keyed set of action definitions
type Table struct {
	order []string
	byKey map[string]Action
}

// NewTable builds a table, rejecting empty and duplicate keys
func NewTable(actions []Action) (*Table, error) {
	t := &Table{
		order: make([]string, 0, len(actions)),
		byKey: make(map[string]Action, len(actions)),
	}

	var errs []error
	for i, a := range actions {
		if a.Key == "" {
			errs = append(errs, fmt.Errorf("action %d: key is required", i))
			continue
		}
		if _, dup := t.byKey[a.Key]; dup {
			errs = append(errs, fmt.Errorf("action %s: duplicate key", a.Key))
			continue
		}
		if a.SuccessOutcome == "" {
			errs = append(errs, fmt.Errorf("action %s: successOutcome is required", a.Key))
		}
		if a.Label == "" {
			a.Label = a.Key
		}
		t.order = append(t.order, a.Key)
		t.byKey[a.Key] = a
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// MustTable is NewTable for tables known to be valid
func MustTable(actions []Action) *Table {
	t, err := NewTable(actions)
	if err != nil {
		panic(err)
	}
	return t
}

// Get looks up an action by key
func (t *Table) Get(key string) (Action, bool) {
	a, ok := t.byKey[key]
	return a, ok
}

// Keys returns the action keys in definition order
func (t *Table) Keys() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// Actions returns the definitions in order
func (t *Table) Actions() []Action {
	actions := make([]Action, 0, len(t.order))
	for _, k := range t.order {
		actions = append(actions, t.byKey[k])
	}
	return actions
}

// Len returns the number of defined actions
func (t *Table) Len() int {
	return len(t.order)
}
