package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. DRONE_RISK_SCENARIO_COVERAGE_RADIUS_METERS
const EnvPrefix = "DRONE_RISK_SCENARIO_"

// FileSuffix marks scenario files for discovery
const FileSuffix = ".scenario.yaml"

// Load builds a scenario by layering (low -> high):
//  1. the preset (the preset argument, else the file's preset key, else DefaultPreset)
//  2. the YAML file at path, if path is not empty
//  3. environment variables with EnvPrefix
//
// Sections the file leaves empty fall back to the preset as a whole.
func Load(path, preset string) (*Config, error) {
	return LoadFrom(DefaultRegistry, path, preset)
}

// LoadFrom is Load against a specific preset registry
func LoadFrom(registry *Registry, path, preset string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load scenario file %s: %w", path, err)
		}
	}

	// DRONE_RISK_SCENARIO_COVERAGE_RADIUS_METERS -> coverage_radius_meters
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load scenario environment: %w", err)
	}

	if preset == "" {
		preset = k.String("preset")
	}
	if preset == "" {
		preset = DefaultPreset
	}
	base, err := registry.Get(preset)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	cfg.Preset = preset
	cfg.withDefaults(base)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the scenario as YAML, creating parent directories
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create scenario directory: %w", err)
		}
	}

	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}
	return nil
}

// Marshal renders the scenario as YAML
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scenario: %w", err)
	}
	return data, nil
}
