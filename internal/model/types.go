package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// -----------------------------------------------------------------------------
// Survey Types
// -----------------------------------------------------------------------------

// SurveyInfo identifies the platform and provider a sounding came from.
// Every sounding carries one; its fields become attribute columns in the
// published vector layers.
type SurveyInfo struct {
	Name         string // Unique platform/survey identifier (e.g., "ZEPHYR-2021-03")
	Organization string // Contributing organization (e.g., "GLOS")
	Type         string // Survey type (e.g., "CSB", "multibeam", "singlebeam")
	SourceURL    string // Where the source archive can be retrieved
}

// Validate checks that the required identity fields are present.
func (s SurveyInfo) Validate() error {
	if s.Name == "" {
		return errors.New("survey name is required")
	}
	if s.Organization == "" {
		return errors.New("survey organization is required")
	}
	return nil
}

// Sounding is a single depth observation. Soundings are immutable once read;
// the pipeline never mutates them, it only derives new records from them.
type Sounding struct {
	Lat    float64    // Latitude, WGS84 decimal degrees
	Lon    float64    // Longitude, WGS84 decimal degrees
	Depth  float64    // Depth in meters, positive down
	Time   time.Time  // Observation time (UTC)
	Survey SurveyInfo // Originating survey
}

// PeriodKey returns the survey period label ("YYYY-MM", UTC) used for
// temporal grouping and per-period output naming.
func (s Sounding) PeriodKey() string {
	return s.Time.UTC().Format("2006-01")
}

// -----------------------------------------------------------------------------
// Derived Types
// -----------------------------------------------------------------------------

// IndexedRecord is a sounding joined with its hexagonal cell at one
// resolution. Cell geometry is not stored here: it is a pure function of
// CellID and is rendered by the writers per distinct cell.
type IndexedRecord struct {
	CellID     string     // H3 cell identifier (hex string)
	Resolution int        // H3 resolution (0-15)
	Lat        float64    // Original latitude
	Lon        float64    // Original longitude
	Depth      float64    // Depth in meters, positive down
	Time       time.Time  // Observation time (UTC)
	Period     string     // Survey period key ("YYYY-MM")
	Survey     SurveyInfo // Denormalized survey attributes
}

// Key returns the full attribute tuple as a composite string. Two records
// with equal keys are exact duplicates.
func (r IndexedRecord) Key() string {
	return fmt.Sprintf("%s|%.7f|%.7f|%.3f|%d|%s|%s|%s|%s",
		r.CellID, r.Lat, r.Lon, r.Depth, r.Time.UTC().UnixMicro(),
		r.Survey.Name, r.Survey.Organization, r.Survey.Type, r.Survey.SourceURL)
}

// AggregatedCell is one output row of the aggregator: a grouping key with
// the summary statistics of the depths that fell into it.
type AggregatedCell struct {
	Key         string  // Grouping key: cell identifier or period label
	Count       int     // Number of contributing records
	MedianDepth float64 // Exact median (even counts average the two middles)
	MinDepth    float64 // Shallowest contributing depth
	MaxDepth    float64 // Deepest contributing depth
	StdDev      float64 // Sample standard deviation, 0 for a single record
}

// -----------------------------------------------------------------------------
// Geographic Types
// -----------------------------------------------------------------------------

// BoundingBox is a WGS84 longitude/latitude rectangle. Boxes are assumed not
// to cross the antimeridian.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Contains reports whether the point lies inside or on the box edge.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Union returns the smallest box covering both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		MinLon: math.Min(b.MinLon, other.MinLon),
		MinLat: math.Min(b.MinLat, other.MinLat),
		MaxLon: math.Max(b.MaxLon, other.MaxLon),
		MaxLat: math.Max(b.MaxLat, other.MaxLat),
	}
}

// Validate checks ordering and coordinate ranges.
func (b BoundingBox) Validate() error {
	if b.MinLat < -90 || b.MaxLat > 90 {
		return fmt.Errorf("latitude range [%v, %v] outside [-90, 90]", b.MinLat, b.MaxLat)
	}
	if b.MinLon < -180 || b.MaxLon > 180 {
		return fmt.Errorf("longitude range [%v, %v] outside [-180, 180]", b.MinLon, b.MaxLon)
	}
	if b.MinLat > b.MaxLat {
		return fmt.Errorf("min latitude %v exceeds max latitude %v", b.MinLat, b.MaxLat)
	}
	if b.MinLon > b.MaxLon {
		return fmt.Errorf("min longitude %v exceeds max longitude %v", b.MinLon, b.MaxLon)
	}
	return nil
}
