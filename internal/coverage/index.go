package coverage

import (
	"fmt"
	"slices"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/sutherm/glos-geo/internal/hexgrid"
	"github.com/sutherm/glos-geo/internal/model"
)

// CellEntry contains indexed metadata for one cell/survey pair.
type CellEntry struct {
	CellID     string
	Resolution int
	Survey     string
	Period     string
	GeoBounds  model.BoundingBox // Bounding box of the cell ring
}

// Bounds method for the rtreego.Spatial interface.
func (e CellEntry) Bounds() rtreego.Rect {
	point := rtreego.Point{e.GeoBounds.MinLon, e.GeoBounds.MinLat}
	lengths := []float64{
		e.GeoBounds.MaxLon - e.GeoBounds.MinLon,
		e.GeoBounds.MaxLat - e.GeoBounds.MinLat,
	}

	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// Index provides fast spatial queries over a run's indexed cells.
type Index struct {
	entries []CellEntry
	rtree   *rtreego.Rtree
}

// Build creates an index from indexed records. Records sharing a cell and
// survey collapse into a single entry; cell bounds are derived from the cell
// ring.
func Build(records []model.IndexedRecord) (*Index, error) {
	rtree := rtreego.NewTree(2, 25, 50)

	var entries []CellEntry
	seen := make(map[string]bool)
	rings := make(map[string]model.BoundingBox)

	for _, rec := range records {
		key := rec.CellID + "|" + rec.Survey.Name
		if seen[key] {
			continue
		}
		seen[key] = true

		bounds, ok := rings[rec.CellID]
		if !ok {
			geom, err := hexgrid.Boundary(rec.CellID)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", rec.CellID, err)
			}
			bd := geom.Ring.Bound()
			bounds = model.BoundingBox{
				MinLon: bd.Min[0],
				MinLat: bd.Min[1],
				MaxLon: bd.Max[0],
				MaxLat: bd.Max[1],
			}
			rings[rec.CellID] = bounds
		}

		entry := CellEntry{
			CellID:     rec.CellID,
			Resolution: rec.Resolution,
			Survey:     rec.Survey.Name,
			Period:     rec.Period,
			GeoBounds:  bounds,
		}
		entries = append(entries, entry)
		rtree.Insert(entry)
	}

	return &Index{entries: entries, rtree: rtree}, nil
}

// QueryOptions controls spatial query behavior.
type QueryOptions struct {
	// Resolutions filters by cell resolution. Empty matches all resolutions.
	Resolutions []int

	// Surveys filters by survey name. Empty matches all surveys.
	Surveys []string
}

// Query returns entries whose cell bounds intersect the given box, finest
// resolution first, then by cell and survey for a stable order.
func (idx *Index) Query(box model.BoundingBox, opts QueryOptions) []CellEntry {
	point := rtreego.Point{box.MinLon, box.MinLat}
	lengths := []float64{
		box.MaxLon - box.MinLon,
		box.MaxLat - box.MinLat,
	}
	queryRect, _ := rtreego.NewRect(point, lengths)

	var result []CellEntry
	for _, spatial := range idx.rtree.SearchIntersect(queryRect) {
		entry := spatial.(CellEntry)

		if len(opts.Resolutions) > 0 && !slices.Contains(opts.Resolutions, entry.Resolution) {
			continue
		}
		if len(opts.Surveys) > 0 && !slices.Contains(opts.Surveys, entry.Survey) {
			continue
		}

		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Resolution != result[j].Resolution {
			return result[i].Resolution > result[j].Resolution
		}
		if result[i].CellID != result[j].CellID {
			return result[i].CellID < result[j].CellID
		}
		return result[i].Survey < result[j].Survey
	})

	return result
}

// SurveyExtents returns the union box of each survey's cells.
func (idx *Index) SurveyExtents() map[string]model.BoundingBox {
	extents := make(map[string]model.BoundingBox)
	for _, e := range idx.entries {
		if b, ok := extents[e.Survey]; ok {
			extents[e.Survey] = b.Union(e.GeoBounds)
		} else {
			extents[e.Survey] = e.GeoBounds
		}
	}
	return extents
}

// Bounds returns the union of all entry bounds in the index.
func (idx *Index) Bounds() model.BoundingBox {
	if len(idx.entries) == 0 {
		return model.BoundingBox{}
	}

	bounds := idx.entries[0].GeoBounds
	for i := 1; i < len(idx.entries); i++ {
		bounds = bounds.Union(idx.entries[i].GeoBounds)
	}
	return bounds
}

// Count returns the number of cell/survey entries in the index.
func (idx *Index) Count() int {
	return len(idx.entries)
}
