package aggregate

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sutherm/glos-geo/internal/model"
)

// Mode selects the grouping key.
type Mode string

const (
	ModeSpatial  Mode = "spatial"  // group by cell identifier
	ModeTemporal Mode = "temporal" // group by survey period key
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSpatial || m == ModeTemporal
}

func (m Mode) key(r model.IndexedRecord) string {
	if m == ModeTemporal {
		return r.Period
	}
	return r.CellID
}

// Partition splits records into disjoint groups by the mode's key. Every
// record appears in exactly one group and within-group order follows input
// order.
func Partition(records []model.IndexedRecord, mode Mode) (map[string][]model.IndexedRecord, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown aggregation mode %q", mode)
	}

	groups := make(map[string][]model.IndexedRecord)
	for _, r := range records {
		k := mode.key(r)
		groups[k] = append(groups[k], r)
	}
	return groups, nil
}

// Summarize produces one AggregatedCell per distinct key, sorted by key so
// output is stable across runs.
func Summarize(records []model.IndexedRecord, mode Mode) ([]model.AggregatedCell, error) {
	groups, err := Partition(records, mode)
	if err != nil {
		return nil, err
	}

	out := make([]model.AggregatedCell, 0, len(groups))
	for _, k := range slices.Sorted(maps.Keys(groups)) {
		group := groups[k]
		depths := make([]float64, len(group))
		for i, r := range group {
			depths[i] = r.Depth
		}

		cell := model.AggregatedCell{
			Key:         k,
			Count:       len(group),
			MedianDepth: Median(depths),
			MinDepth:    floats.Min(depths),
			MaxDepth:    floats.Max(depths),
		}
		if len(depths) > 1 {
			cell.StdDev = stat.StdDev(depths, nil)
		}
		out = append(out, cell)
	}
	return out, nil
}

// Median returns the exact median of values. An even count averages the two
// middle values. The input is not modified.
//
// Panics on an empty slice; groups are never empty.
func Median(values []float64) float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
