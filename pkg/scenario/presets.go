package scenario

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/picogrid/drone-risk-engine/pkg/coverage"
	"github.com/picogrid/drone-risk-engine/pkg/geo"
	"github.com/picogrid/drone-risk-engine/pkg/mitigation"
	"github.com/picogrid/drone-risk-engine/pkg/models"
	"github.com/picogrid/drone-risk-engine/pkg/risk"
)

// Built-in preset names
const (
	PresetBaseline = "baseline"
	PresetExtended = "extended"

	DefaultPreset = PresetExtended
)

// ErrPresetNotFound is returned for unregistered preset names
var ErrPresetNotFound = errors.New("preset not found")

// Registry manages the available scenario presets
type Registry struct {
	mu      sync.RWMutex
	presets map[string]func() *Config
}

// NewRegistry creates an empty preset registry
func NewRegistry() *Registry {
	return &Registry{
		presets: make(map[string]func() *Config),
	}
}

// Register adds a preset to the registry
func (r *Registry) Register(name string, factory func() *Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.presets[name]; exists {
		return fmt.Errorf("preset %s already registered", name)
	}

	r.presets[name] = factory
	return nil
}

// Get returns a fresh copy of the requested preset
func (r *Registry) Get(name string) (*Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.presets[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}

	return factory(), nil
}

// List returns all registered preset names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in presets
var DefaultRegistry = NewRegistry()

func init() {
	_ = DefaultRegistry.Register(PresetBaseline, Baseline)
	_ = DefaultRegistry.Register(PresetExtended, Extended)
}

// Baseline is the twelve-indicator, three-action scenario without stations
func Baseline() *Config {
	targets := sampleTargets()
	for i := range targets {
		delete(targets[i].Indicators, risk.NoSpeedChangeWaterLand)
		delete(targets[i].ActionOutcomes, mitigation.Report)
	}

	return &Config{
		Name:                 PresetBaseline,
		Description:          "Twelve indicators, three mitigation actions, no coverage stations",
		Preset:               PresetBaseline,
		CoverageRadiusMeters: coverage.DefaultRadiusMeters,
		Weights:              risk.BaselineWeights(),
		Actions:              mitigation.BaselineActions(),
		Targets:              targets,
	}
}

// Extended adds noSpeedChangeWaterLand, the report action and coverage stations
func Extended() *Config {
	return &Config{
		Name:                 PresetExtended,
		Description:          "Thirteen indicators, four mitigation actions, three coverage stations",
		Preset:               PresetExtended,
		CoverageRadiusMeters: coverage.DefaultRadiusMeters,
		Weights:              risk.ExtendedWeights(),
		Actions:              mitigation.CanonicalActions(),
		Stations:             sampleStations(),
		Targets:              sampleTargets(),
	}
}

func sampleStations() []models.Station {
	return []models.Station{
		{ID: "north", Name: "North Ridge", Position: geo.Position{Latitude: 39.0458, Longitude: -77.0300}},
		{ID: "river", Name: "Riverside", Position: geo.Position{Latitude: 38.8512, Longitude: -77.0402}},
		{ID: "east", Name: "East Field", Position: geo.Position{Latitude: 38.9000, Longitude: -76.5000}},
	}
}

func sampleTargets() []models.TargetDefinition {
	return []models.TargetDefinition{
		{
			ID:       "t1",
			CallSign: "UAS-ALPHA",
			Track: geo.Track{
				{Latitude: 38.9800, Longitude: -77.1000},
				{Latitude: 38.9500, Longitude: -77.0700},
				{Latitude: 38.9200, Longitude: -77.0400},
			},
			Indicators: risk.Indicators{
				risk.InNoFlyZone: true,
				risk.MissingRID:  true,
				risk.UASFlag:     true,
				risk.Loitering:   true,
			},
			ActionOutcomes: map[string]string{
				mitigation.SIMDetach:      "detached",
				mitigation.CyberTakeover:  "takeover_failed",
				mitigation.DirectionalJam: "jammed",
				mitigation.Report:         "reported",
			},
		},
		{
			ID:       "t2",
			CallSign: "UAS-BRAVO",
			Track: geo.Track{
				{Latitude: 38.8000, Longitude: -77.0000},
				{Latitude: 38.8300, Longitude: -77.0200},
			},
			Indicators: risk.Indicators{
				risk.IMEIModem:              true,
				risk.DataOnly:               true,
				risk.HighHandover:           true,
				risk.NoSpeedChangeWaterLand: true,
			},
			ActionOutcomes: map[string]string{
				mitigation.SIMDetach:      "not_detached",
				mitigation.CyberTakeover:  "taken_over",
				mitigation.DirectionalJam: "jam_ineffective",
				mitigation.Report:         "reported",
			},
		},
		{
			ID: "t3",
			Track: geo.Track{
				{Latitude: 39.2000, Longitude: -76.7000},
			},
			Indicators: risk.Indicators{
				risk.HighSpeed: true,
			},
			ActionOutcomes: map[string]string{
				mitigation.SIMDetach:      "detached",
				mitigation.CyberTakeover:  "taken_over",
				mitigation.DirectionalJam: "jammed",
				mitigation.Report:         "report_failed",
			},
		},
		{
			ID:       "t4",
			CallSign: "UAS-DELTA",
			Track: geo.Track{
				{Latitude: 38.9100, Longitude: -76.6000},
				{Latitude: 38.9050, Longitude: -76.5500},
				{Latitude: 38.9020, Longitude: -76.5200},
			},
			Indicators: risk.Indicators{
				risk.VerticalMovement:   true,
				risk.HighAltitude:       true,
				risk.NearMannedCorridor: true,
				risk.RepeatSighting:     true,
			},
			ActionOutcomes: map[string]string{
				mitigation.SIMDetach:      "not_detached",
				mitigation.CyberTakeover:  "takeover_failed",
				mitigation.DirectionalJam: "jam_ineffective",
				mitigation.Report:         "reported",
			},
		},
	}
}
