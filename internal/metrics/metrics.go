package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// gridding pipeline.
type Metrics struct {
	SoundingsRead     prometheus.Counter
	SoundingsRejected *prometheus.CounterVec // labels: reason={parse,range,bbox}
	DuplicatesDropped prometheus.Counter
	SourcesFailed     prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Per-resolution metrics. The resolution label is the decimal grid level.
	RecordsIndexed  *prometheus.CounterVec // labels: resolution
	CellsAggregated *prometheus.CounterVec // labels: resolution

	// Latency metrics.
	SourceDuration prometheus.Histogram
	WriteDuration  *prometheus.HistogramVec // labels: format={geojson,shapefile}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SoundingsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csbgrid",
			Name:      "soundings_read_total",
			Help:      "Total point soundings parsed from source files.",
		}),
		SoundingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csbgrid",
			Name:      "soundings_rejected_total",
			Help:      "Soundings dropped during ingest by reason.",
		}, []string{"reason"}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csbgrid",
			Name:      "duplicates_dropped_total",
			Help:      "Exact duplicate records removed during merge.",
		}),
		SourcesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "csbgrid",
			Name:      "sources_failed_total",
			Help:      "Source files that failed to index.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "csbgrid",
			Name:      "pipeline_running",
			Help:      "1 while a gridding run is active, 0 otherwise.",
		}),
		RecordsIndexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csbgrid",
			Name:      "records_indexed_total",
			Help:      "Indexed records produced per grid resolution.",
		}, []string{"resolution"}),
		CellsAggregated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csbgrid",
			Name:      "cells_aggregated_total",
			Help:      "Aggregated cells produced per grid resolution.",
		}, []string{"resolution"}),
		SourceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "csbgrid",
			Name:      "source_duration_seconds",
			Help:      "Duration of reading and indexing one source file.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		WriteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "csbgrid",
			Name:      "write_duration_seconds",
			Help:      "Duration of writing one output dataset by format.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		}, []string{"format"}),
	}

	prometheus.MustRegister(
		m.SoundingsRead,
		m.SoundingsRejected,
		m.DuplicatesDropped,
		m.SourcesFailed,
		m.PipelineRunning,
		m.RecordsIndexed,
		m.CellsAggregated,
		m.SourceDuration,
		m.WriteDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SoundingsRead:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "csbgrid", Name: "soundings_read_total"}),
		SoundingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "csbgrid", Name: "soundings_rejected_total"}, []string{"reason"}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "csbgrid", Name: "duplicates_dropped_total"}),
		SourcesFailed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "csbgrid", Name: "sources_failed_total"}),
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "csbgrid", Name: "pipeline_running"}),
		RecordsIndexed:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "csbgrid", Name: "records_indexed_total"}, []string{"resolution"}),
		CellsAggregated:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "csbgrid", Name: "cells_aggregated_total"}, []string{"resolution"}),
		SourceDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "csbgrid", Name: "source_duration_seconds"}),
		WriteDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "csbgrid", Name: "write_duration_seconds"}, []string{"format"}),
	}
}
