package pipeline

import (
	"log/slog"

	"github.com/sutherm/glos-geo/internal/aggregate"
	"github.com/sutherm/glos-geo/internal/ingest"
	"github.com/sutherm/glos-geo/internal/metrics"
	"github.com/sutherm/glos-geo/internal/model"
	"github.com/sutherm/glos-geo/internal/writer"
)

// Config holds gridding run configuration.
type Config struct {
	Name        string             // Run name recorded in the report
	Mode        aggregate.Mode     // Spatial or temporal grouping
	Resolutions []int              // Grid resolutions to index at
	Workers     int                // Concurrent source readers
	Formats     []string           // Vector formats to render
	BBox        *model.BoundingBox // Optional clip region
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Mode:        aggregate.ModeSpatial,
		Resolutions: []int{4, 6, 8},
		Workers:     4,
		Formats:     []string{"geojson", "shapefile"},
	}
}

// Input is one named point-sounding file with its reader.
type Input struct {
	Name   string
	Path   string
	Source ingest.Source
}

// Pipeline turns point-sounding files into published grid artifacts.
type Pipeline struct {
	cfg     Config
	writer  *writer.Writer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new Pipeline. A nil metrics sink is replaced with an
// unregistered one.
func New(cfg Config, w *writer.Writer, m *metrics.Metrics, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewMetricsForTesting()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Mode == "" {
		cfg.Mode = aggregate.ModeSpatial
	}

	return &Pipeline{
		cfg:     cfg,
		writer:  w,
		metrics: m,
		logger:  logger,
	}
}
