// Package scenario loads, validates and saves the fixed session input: the
// targets, stations, weight table, action table and coverage radius.
package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/picogrid/drone-risk-engine/pkg/engine"
	"github.com/picogrid/drone-risk-engine/pkg/geo"
	"github.com/picogrid/drone-risk-engine/pkg/mitigation"
	"github.com/picogrid/drone-risk-engine/pkg/models"
	"github.com/picogrid/drone-risk-engine/pkg/risk"
)

// Config is one scenario definition
type Config struct {
	Name                 string                    `yaml:"name" koanf:"name"`
	Description          string                    `yaml:"description,omitempty" koanf:"description"`
	Preset               string                    `yaml:"preset,omitempty" koanf:"preset"`
	CoverageRadiusMeters float64                   `yaml:"coverage_radius_meters" koanf:"coverage_radius_meters"`
	Weights              risk.Weights              `yaml:"weights" koanf:"weights"`
	Actions              []mitigation.Action       `yaml:"actions" koanf:"actions"`
	Stations             []models.Station          `yaml:"stations,omitempty" koanf:"stations"`
	Targets              []models.TargetDefinition `yaml:"targets" koanf:"targets"`
}

// Engine converts the scenario into engine input
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Targets:              c.Targets,
		Stations:             c.Stations,
		Weights:              c.Weights,
		Actions:              c.Actions,
		CoverageRadiusMeters: c.CoverageRadiusMeters,
	}
}

// withDefaults fills every section the scenario leaves empty from base
func (c *Config) withDefaults(base *Config) {
	if c.Name == "" {
		c.Name = base.Name
	}
	if c.Description == "" {
		c.Description = base.Description
	}
	if c.CoverageRadiusMeters == 0 {
		c.CoverageRadiusMeters = base.CoverageRadiusMeters
	}
	if len(c.Weights) == 0 {
		c.Weights = base.Weights.Clone()
	}
	if len(c.Actions) == 0 {
		c.Actions = append([]mitigation.Action(nil), base.Actions...)
	}
	if len(c.Stations) == 0 {
		c.Stations = append([]models.Station(nil), base.Stations...)
	}
	if len(c.Targets) == 0 {
		c.Targets = append([]models.TargetDefinition(nil), base.Targets...)
	}
}

// Validate checks the scenario and reports every problem found
func (c *Config) Validate() error {
	var errs []string

	if c.CoverageRadiusMeters <= 0 {
		errs = append(errs, "coverage_radius_meters must be positive")
	}

	known := risk.ExtendedWeights()
	for _, name := range c.Weights.Names() {
		if _, ok := known[name]; !ok {
			errs = append(errs, fmt.Sprintf("weights: unknown indicator %q", name))
		}
		if c.Weights[name] <= 0 {
			errs = append(errs, fmt.Sprintf("weights: %s must be positive", name))
		}
	}

	table, err := mitigation.NewTable(c.Actions)
	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			errs = append(errs, "actions: "+line)
		}
	}

	stationIDs := make(map[string]bool, len(c.Stations))
	for i, s := range c.Stations {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("stations[%d]: id is required", i))
		} else if stationIDs[s.ID] {
			errs = append(errs, fmt.Sprintf("stations[%d]: duplicate id %s", i, s.ID))
		}
		stationIDs[s.ID] = true
		if msg := checkPosition(s.Position); msg != "" {
			errs = append(errs, fmt.Sprintf("stations[%d]: %s", i, msg))
		}
	}

	if len(c.Targets) == 0 {
		errs = append(errs, "at least one target is required")
	}

	targetIDs := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		if t.ID == "" {
			errs = append(errs, fmt.Sprintf("targets[%d]: id is required", i))
		} else if targetIDs[t.ID] {
			errs = append(errs, fmt.Sprintf("targets[%d]: duplicate id %s", i, t.ID))
		}
		targetIDs[t.ID] = true

		if len(t.Track) == 0 {
			errs = append(errs, fmt.Sprintf("targets[%d]: track must contain at least one point", i))
		}
		for j, p := range t.Track {
			if msg := checkPosition(p); msg != "" {
				errs = append(errs, fmt.Sprintf("targets[%d].track[%d]: %s", i, j, msg))
			}
		}

		for _, name := range t.Indicators.Names() {
			if _, ok := known[name]; !ok {
				errs = append(errs, fmt.Sprintf("targets[%d]: unknown indicator %q", i, name))
			}
		}

		if table != nil {
			for _, key := range outcomeKeys(t.ActionOutcomes) {
				if _, ok := table.Get(key); !ok {
					errs = append(errs, fmt.Sprintf("targets[%d]: outcome for undefined action %q", i, key))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid scenario:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func outcomeKeys(outcomes map[string]string) []string {
	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkPosition(p geo.Position) string {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Sprintf("latitude %f out of range", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Sprintf("longitude %f out of range", p.Longitude)
	}
	return ""
}
