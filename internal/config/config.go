package config

import (
	"time"

	"github.com/sutherm/glos-geo/internal/model"
)

// PipelineConfig is the root configuration for a gridding run.
type PipelineConfig struct {
	Run      RunConfig     `yaml:"run"`
	Grid     GridConfig    `yaml:"grid"`
	Order    OrderConfig   `yaml:"order"`
	Outputs  OutputsConfig `yaml:"outputs"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Manifest string        `yaml:"manifest"` // Path to the source manifest
}

// RunConfig identifies and shapes one run.
type RunConfig struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`    // "spatial" or "temporal"
	Workers int    `yaml:"workers"` // Concurrent per-source indexing workers
}

// GridConfig holds the hexagonal grid settings.
type GridConfig struct {
	Resolutions []int       `yaml:"resolutions"` // H3 resolutions to grid at
	BBox        *BBoxConfig `yaml:"bbox"`        // Optional clip region
}

// BBoxConfig is a WGS84 rectangle in config form.
type BBoxConfig struct {
	MinLon float64 `yaml:"min_lon"`
	MinLat float64 `yaml:"min_lat"`
	MaxLon float64 `yaml:"max_lon"`
	MaxLat float64 `yaml:"max_lat"`
}

// BoundingBox converts to the model type.
func (b BBoxConfig) BoundingBox() model.BoundingBox {
	return model.BoundingBox{
		MinLon: b.MinLon,
		MinLat: b.MinLat,
		MaxLon: b.MaxLon,
		MaxLat: b.MaxLat,
	}
}

// OrderConfig holds bulk extract order settings. The section is optional;
// it is only consulted when ordering source data.
type OrderConfig struct {
	URL          string        `yaml:"url"`
	Contact      string        `yaml:"contact"` // Email attached to submitted orders
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxWait      time.Duration `yaml:"max_wait"`
}

// OutputsConfig holds artifact output settings.
type OutputsConfig struct {
	Dir       string   `yaml:"dir"`
	Formats   []string `yaml:"formats"` // "geojson" and/or "shapefile"
	Overwrite bool     `yaml:"overwrite"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// SourceConfig describes one point-sounding input.
type SourceConfig struct {
	Name         string       `yaml:"name"`
	Path         string       `yaml:"path"`
	Format       string       `yaml:"format"`        // "csv" or "xyz"
	DepthUnit    string       `yaml:"depth_unit"`    // "meters", "feet", or "fathoms"
	MetadataPath string       `yaml:"metadata_path"` // Optional platform metadata JSON
	Survey       SurveyConfig `yaml:"survey"`
}

// SurveyConfig holds the survey attribution for a source.
type SurveyConfig struct {
	Name         string `yaml:"name"`
	Organization string `yaml:"organization"`
	Type         string `yaml:"type"`
	SourceURL    string `yaml:"source_url"`
}

// SurveyInfo converts to the model type.
func (s SurveyConfig) SurveyInfo() model.SurveyInfo {
	return model.SurveyInfo{
		Name:         s.Name,
		Organization: s.Organization,
		Type:         s.Type,
		SourceURL:    s.SourceURL,
	}
}
