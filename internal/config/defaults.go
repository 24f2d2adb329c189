package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultMode         = "spatial"
	DefaultWorkers      = 4
	DefaultOutputDir    = "out"
	DefaultOrderTimeout = 30 * time.Second
	DefaultOrderRetries = 3
	DefaultPollInterval = 30 * time.Second
	DefaultMaxWait      = 2 * time.Hour
	DefaultMetricsPort  = 9090
	DefaultMetricsPath  = "/metrics"
	DefaultDepthUnit    = "meters"
)

// DefaultResolutions are the grid levels used when none are configured.
var DefaultResolutions = []int{4, 6, 8}

// DefaultFormats are the output formats used when none are configured.
var DefaultFormats = []string{"geojson", "shapefile"}

func (c *PipelineConfig) applyDefaults() {
	// Run defaults
	if c.Run.Mode == "" {
		c.Run.Mode = DefaultMode
	}
	if c.Run.Workers == 0 {
		c.Run.Workers = DefaultWorkers
	}

	// Grid defaults
	if len(c.Grid.Resolutions) == 0 {
		c.Grid.Resolutions = append([]int(nil), DefaultResolutions...)
	}

	// Order defaults
	if c.Order.Timeout == 0 {
		c.Order.Timeout = DefaultOrderTimeout
	}
	if c.Order.MaxRetries == 0 {
		c.Order.MaxRetries = DefaultOrderRetries
	}
	if c.Order.PollInterval == 0 {
		c.Order.PollInterval = DefaultPollInterval
	}
	if c.Order.MaxWait == 0 {
		c.Order.MaxWait = DefaultMaxWait
	}

	// Outputs defaults
	if c.Outputs.Dir == "" {
		c.Outputs.Dir = DefaultOutputDir
	}
	if len(c.Outputs.Formats) == 0 {
		c.Outputs.Formats = append([]string(nil), DefaultFormats...)
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
