package pipeline

import "time"

// RunSummary is the JSON report written at the end of a run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Name       string    `json:"name"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Complete is false when any source failed to index.
	Complete bool `json:"complete"`

	Sources     []SourceResult     `json:"sources"`
	Resolutions []ResolutionResult `json:"resolutions"`

	// Periods carries the per-period depth statistics; empty in spatial mode.
	Periods []PeriodResult `json:"periods,omitempty"`

	// Outputs lists every vector artifact path written.
	Outputs []string `json:"outputs"`
}

// SourceResult reports one input file.
type SourceResult struct {
	Name      string `json:"name"`
	Soundings int    `json:"soundings"`
	Error     string `json:"error,omitempty"`
}

// ResolutionResult reports one grid resolution.
type ResolutionResult struct {
	Resolution int `json:"resolution"`
	Records    int `json:"records"`    // records kept after duplicate removal
	Duplicates int `json:"duplicates"` // exact duplicates dropped
	Cells      int `json:"cells"`      // distinct populated cells
}

// PeriodResult reports the depth statistics of one survey period.
type PeriodResult struct {
	Period      string  `json:"period"`
	Count       int     `json:"count"`
	MedianDepth float64 `json:"median_depth_m"`
	MinDepth    float64 `json:"min_depth_m"`
	MaxDepth    float64 `json:"max_depth_m"`
	StdDev      float64 `json:"std_dev_m"`
}
