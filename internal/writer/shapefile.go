package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/sutherm/glos-geo/internal/model"
)

// wgs84Wkt is the ESRI well-known text for geographic WGS84 coordinates,
// written beside every shapefile as its .prj sidecar.
const wgs84Wkt = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// shapefileSidecars lists the extensions a shapefile write produces.
var shapefileSidecars = []string{".shp", ".shx", ".dbf", ".prj"}

// guardShapefile enforces write-once semantics across all sidecar files.
func (w *Writer) guardShapefile(base string) error {
	for _, ext := range shapefileSidecars {
		path := base + ext
		if _, err := os.Stat(path); err == nil {
			if !w.cfg.Overwrite {
				return &OutputExistsError{Path: path}
			}
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// shpRing converts a cell ring to shapefile points. ESRI polygons wind outer
// rings clockwise, so the ring order is reversed.
func shpRing(ring orb.Ring) []shp.Point {
	pts := make([]shp.Point, len(ring))
	for i, p := range ring {
		pts[len(pts)-1-i] = shp.Point{X: p[0], Y: p[1]}
	}
	return pts
}

// writePrj writes the WGS84 projection sidecar.
func writePrj(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(wgs84Wkt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteRecordsShapefile writes deduplicated records as an ESRI polygon
// shapefile with a WGS84 .prj sidecar. Returns the .shp path written.
func (w *Writer) WriteRecordsShapefile(name string, records []model.IndexedRecord) (string, error) {
	base := filepath.Join(w.cfg.Dir, name)
	if err := w.guardShapefile(base); err != nil {
		return "", err
	}

	path := base + ".shp"
	sw, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	sw.SetFields([]shp.Field{
		shp.StringField("cell", 15),
		shp.FloatField("depth", 19, 9),
		shp.StringField("obs_time", 20),
		shp.StringField("period", 7),
		shp.StringField("survey", 64),
		shp.StringField("org", 64),
		shp.StringField("type", 16),
		shp.StringField("source_url", 128),
	})

	for row, rec := range records {
		geom, err := w.boundary(rec.CellID)
		if err != nil {
			sw.Close()
			return "", fmt.Errorf("record cell %s: %w", rec.CellID, err)
		}

		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{shpRing(geom.Ring)}))
		sw.Write(&poly)

		obsTime := ""
		if !rec.Time.IsZero() {
			obsTime = rec.Time.UTC().Format(time.RFC3339)
		}

		sw.WriteAttribute(row, 0, rec.CellID)
		sw.WriteAttribute(row, 1, rec.Depth)
		sw.WriteAttribute(row, 2, obsTime)
		sw.WriteAttribute(row, 3, rec.Period)
		sw.WriteAttribute(row, 4, rec.Survey.Name)
		sw.WriteAttribute(row, 5, rec.Survey.Organization)
		sw.WriteAttribute(row, 6, rec.Survey.Type)
		sw.WriteAttribute(row, 7, rec.Survey.SourceURL)
	}

	sw.Close()

	if err := writePrj(base + ".prj"); err != nil {
		return "", err
	}

	w.logger.Info("wrote shapefile", "path", path, "features", len(records))
	return path, nil
}

// WriteSummaryShapefile writes spatially aggregated cells as an ESRI polygon
// shapefile with a WGS84 .prj sidecar. Cells must be keyed by cell identifier.
func (w *Writer) WriteSummaryShapefile(name string, cells []model.AggregatedCell) (string, error) {
	base := filepath.Join(w.cfg.Dir, name)
	if err := w.guardShapefile(base); err != nil {
		return "", err
	}

	path := base + ".shp"
	sw, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	sw.SetFields([]shp.Field{
		shp.StringField("cell", 15),
		shp.NumberField("count", 10),
		shp.FloatField("depth_med", 19, 9),
		shp.FloatField("depth_min", 19, 9),
		shp.FloatField("depth_max", 19, 9),
		shp.FloatField("depth_std", 19, 9),
	})

	for row, cell := range cells {
		geom, err := w.boundary(cell.Key)
		if err != nil {
			sw.Close()
			return "", fmt.Errorf("summary cell %s: %w", cell.Key, err)
		}

		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{shpRing(geom.Ring)}))
		sw.Write(&poly)

		sw.WriteAttribute(row, 0, cell.Key)
		sw.WriteAttribute(row, 1, cell.Count)
		sw.WriteAttribute(row, 2, cell.MedianDepth)
		sw.WriteAttribute(row, 3, cell.MinDepth)
		sw.WriteAttribute(row, 4, cell.MaxDepth)
		sw.WriteAttribute(row, 5, cell.StdDev)
	}

	sw.Close()

	if err := writePrj(base + ".prj"); err != nil {
		return "", err
	}

	w.logger.Info("wrote shapefile", "path", path, "features", len(cells))
	return path, nil
}
