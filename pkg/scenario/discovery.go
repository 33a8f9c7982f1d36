package scenario

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Info describes a discovered scenario file
type Info struct {
	Path        string
	Name        string
	Description string
	Preset      string
	Targets     int
	Stations    int
}

// header is the part of a scenario file read during discovery
type header struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Preset      string        `yaml:"preset"`
	Targets     []interface{} `yaml:"targets"`
	Stations    []interface{} `yaml:"stations"`
}

// Discover finds all scenario files under dir. Files that fail to parse are
// returned in skipped rather than aborting the scan.
func Discover(dir string) (found []Info, skipped map[string]error, err error) {
	skipped = make(map[string]error)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), FileSuffix) {
			return nil
		}

		info, err := readHeader(path)
		if err != nil {
			skipped[path] = err
			return nil
		}
		found = append(found, *info)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan for scenarios: %w", err)
	}

	return found, skipped, nil
}

func readHeader(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var h header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	name := h.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), FileSuffix)
	}

	return &Info{
		Path:        path,
		Name:        name,
		Description: h.Description,
		Preset:      h.Preset,
		Targets:     len(h.Targets),
		Stations:    len(h.Stations),
	}, nil
}
