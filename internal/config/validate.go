package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks that all required fields are set and values are valid.
func (c *PipelineConfig) Validate() error {
	if c.Run.Name == "" {
		return errors.New("run.name is required")
	}
	if c.Run.Mode != "spatial" && c.Run.Mode != "temporal" {
		return fmt.Errorf("run.mode must be spatial or temporal, got %q", c.Run.Mode)
	}
	if c.Run.Workers < 1 {
		return errors.New("run.workers must be >= 1")
	}

	if len(c.Grid.Resolutions) == 0 {
		return errors.New("grid.resolutions must list at least one resolution")
	}
	seen := make(map[int]bool)
	for _, res := range c.Grid.Resolutions {
		if res < 0 || res > 15 {
			return fmt.Errorf("grid.resolutions: %d outside [0, 15]", res)
		}
		if seen[res] {
			return fmt.Errorf("grid.resolutions: %d listed twice", res)
		}
		seen[res] = true
	}
	if c.Grid.BBox != nil {
		if err := c.Grid.BBox.BoundingBox().Validate(); err != nil {
			return fmt.Errorf("grid.bbox: %w", err)
		}
	}

	if c.Order.URL != "" && c.Order.Contact == "" {
		return errors.New("order.contact is required when order.url is set")
	}

	if c.Outputs.Dir == "" {
		return errors.New("outputs.dir is required")
	}
	for _, f := range c.Outputs.Formats {
		if f != "geojson" && f != "shapefile" {
			return fmt.Errorf("outputs.formats: unknown format %q", f)
		}
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

// validSourceFormats and validDepthUnits bound the manifest enums.
var (
	validSourceFormats = []string{"csv", "xyz"}
	validDepthUnits    = []string{"meters", "feet", "fathoms"}
)

func (s *SourceConfig) validate(prefix string) error {
	if s.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if s.Path == "" {
		return fmt.Errorf("%s.path is required", prefix)
	}
	if !slices.Contains(validSourceFormats, s.Format) {
		return fmt.Errorf("%s.format must be one of %v, got %q", prefix, validSourceFormats, s.Format)
	}
	if !slices.Contains(validDepthUnits, s.DepthUnit) {
		return fmt.Errorf("%s.depth_unit must be one of %v, got %q", prefix, validDepthUnits, s.DepthUnit)
	}
	if s.MetadataPath == "" {
		if s.Survey.Name == "" {
			return fmt.Errorf("%s.survey.name is required without metadata_path", prefix)
		}
		if s.Survey.Organization == "" {
			return fmt.Errorf("%s.survey.organization is required without metadata_path", prefix)
		}
	}
	return nil
}
