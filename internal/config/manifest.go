package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the explicit list of point-sounding sources for one run. The
// pipeline reads exactly what the manifest names; it never globs directories.
type Manifest struct {
	Sources []SourceConfig `yaml:"sources"`
}

// LoadManifest reads a YAML source manifest, expands environment variables,
// applies per-source defaults, and validates every entry.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var m Manifest
	if err := yaml.Unmarshal([]byte(expanded), &m); err != nil {
		return nil, fmt.Errorf("parse manifest yaml: %w", err)
	}

	for i := range m.Sources {
		if m.Sources[i].DepthUnit == "" {
			m.Sources[i].DepthUnit = DefaultDepthUnit
		}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}

	return &m, nil
}

// Validate checks every source entry and rejects duplicate source names.
func (m *Manifest) Validate() error {
	if len(m.Sources) == 0 {
		return fmt.Errorf("manifest lists no sources")
	}

	names := make(map[string]bool)
	for i := range m.Sources {
		prefix := fmt.Sprintf("sources[%d]", i)
		if err := m.Sources[i].validate(prefix); err != nil {
			return err
		}
		if names[m.Sources[i].Name] {
			return fmt.Errorf("%s.name %q listed twice", prefix, m.Sources[i].Name)
		}
		names[m.Sources[i].Name] = true
	}
	return nil
}
