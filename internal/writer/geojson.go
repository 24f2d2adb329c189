package writer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/sutherm/glos-geo/internal/hexgrid"
	"github.com/sutherm/glos-geo/internal/model"
)

// Config holds writer configuration.
type Config struct {
	Dir       string // Destination directory for artifacts
	Overwrite bool   // Replace existing artifacts instead of failing
}

// Writer renders indexed records and cell summaries as vector files.
type Writer struct {
	cfg    Config
	logger *slog.Logger

	geomMu sync.Mutex
	geoms  map[string]hexgrid.Geometry // boundary cache by cell id
}

// New creates a new Writer.
func New(cfg Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		cfg:    cfg,
		logger: logger,
		geoms:  make(map[string]hexgrid.Geometry),
	}
}

// boundary returns the ring for a cell, caching lookups across artifacts.
func (w *Writer) boundary(id string) (hexgrid.Geometry, error) {
	w.geomMu.Lock()
	defer w.geomMu.Unlock()

	if g, ok := w.geoms[id]; ok {
		return g, nil
	}
	g, err := hexgrid.Boundary(id)
	if err != nil {
		return hexgrid.Geometry{}, err
	}
	w.geoms[id] = g
	return g, nil
}

// guard enforces write-once semantics for an artifact path.
func (w *Writer) guard(path string) error {
	if _, err := os.Stat(path); err == nil {
		if !w.cfg.Overwrite {
			return &OutputExistsError{Path: path}
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

// writeJSON encodes v into a freshly created file.
func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// WriteRecordsGeoJSON writes deduplicated records as a GeoJSON
// FeatureCollection, one polygon feature per record. Returns the path written.
func (w *Writer) WriteRecordsGeoJSON(name string, records []model.IndexedRecord) (string, error) {
	path := filepath.Join(w.cfg.Dir, name+".geojson")
	if err := w.guard(path); err != nil {
		return "", err
	}

	fc := geojson.NewFeatureCollection()
	for _, rec := range records {
		geom, err := w.boundary(rec.CellID)
		if err != nil {
			return "", fmt.Errorf("record cell %s: %w", rec.CellID, err)
		}

		f := geojson.NewFeature(orb.Polygon{geom.Ring})
		f.Properties = geojson.Properties{
			"cell":         rec.CellID,
			"depth":        rec.Depth,
			"period":       rec.Period,
			"survey":       rec.Survey.Name,
			"organization": rec.Survey.Organization,
			"type":         rec.Survey.Type,
			"source_url":   rec.Survey.SourceURL,
		}
		if !rec.Time.IsZero() {
			f.Properties["time"] = rec.Time.UTC().Format(time.RFC3339)
		}
		fc.Append(f)
	}

	if err := writeJSON(path, fc); err != nil {
		return "", err
	}

	w.logger.Info("wrote geojson", "path", path, "features", len(records))
	return path, nil
}

// WriteSummaryGeoJSON writes spatially aggregated cells as a GeoJSON
// FeatureCollection, one polygon feature per cell. Cells must be keyed by
// cell identifier.
func (w *Writer) WriteSummaryGeoJSON(name string, cells []model.AggregatedCell) (string, error) {
	path := filepath.Join(w.cfg.Dir, name+".geojson")
	if err := w.guard(path); err != nil {
		return "", err
	}

	fc := geojson.NewFeatureCollection()
	for _, cell := range cells {
		geom, err := w.boundary(cell.Key)
		if err != nil {
			return "", fmt.Errorf("summary cell %s: %w", cell.Key, err)
		}

		f := geojson.NewFeature(orb.Polygon{geom.Ring})
		f.Properties = geojson.Properties{
			"cell":      cell.Key,
			"count":     cell.Count,
			"depth_med": cell.MedianDepth,
			"depth_min": cell.MinDepth,
			"depth_max": cell.MaxDepth,
			"depth_std": cell.StdDev,
		}
		fc.Append(f)
	}

	if err := writeJSON(path, fc); err != nil {
		return "", err
	}

	w.logger.Info("wrote geojson", "path", path, "features", len(cells))
	return path, nil
}

// WriteExtentsGeoJSON writes per-survey coverage extents as a GeoJSON
// FeatureCollection, one rectangle feature per survey in name order.
func (w *Writer) WriteExtentsGeoJSON(name string, extents map[string]model.BoundingBox) (string, error) {
	path := filepath.Join(w.cfg.Dir, name+".geojson")
	if err := w.guard(path); err != nil {
		return "", err
	}

	fc := geojson.NewFeatureCollection()
	for _, survey := range slices.Sorted(maps.Keys(extents)) {
		b := extents[survey]
		bound := orb.Bound{
			Min: orb.Point{b.MinLon, b.MinLat},
			Max: orb.Point{b.MaxLon, b.MaxLat},
		}

		f := geojson.NewFeature(orb.Polygon{bound.ToRing()})
		f.Properties = geojson.Properties{"survey": survey}
		fc.Append(f)
	}

	if err := writeJSON(path, fc); err != nil {
		return "", err
	}

	w.logger.Info("wrote geojson", "path", path, "features", len(extents))
	return path, nil
}
