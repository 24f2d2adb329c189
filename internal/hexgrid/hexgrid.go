package hexgrid

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// Supported H3 resolution range.
const (
	MinResolution = 0
	MaxResolution = 15
)

// CellShape distinguishes the two ring shapes the grid produces.
type CellShape string

const (
	ShapeHexagon  CellShape = "hexagon"
	ShapePentagon CellShape = "pentagon"
)

// Geometry is the boundary of one cell: a closed ring (first vertex repeated
// as the last) in lon/lat order, counterclockwise. Where a cell edge crosses
// an icosahedron face edge the ring carries the crossing point too, so rings
// can hold more points than the cell has corners; pentagon rings always do.
type Geometry struct {
	ID    string
	Shape CellShape
	Ring  orb.Ring
}

// Vertices returns the number of cell corners: 6 for hexagons, 5 for
// pentagons.
func (g Geometry) Vertices() int {
	if g.Shape == ShapePentagon {
		return 5
	}
	return 6
}

// Cell returns the identifier of the cell containing the point at the given
// resolution. The identifier is an H3 index in hex string form and is a pure
// function of the inputs.
func Cell(lat, lon float64, res int) (string, error) {
	if res < MinResolution || res > MaxResolution {
		return "", &InvalidResolutionError{Resolution: res}
	}
	if !validCoordinate(lat, lon) {
		return "", &InvalidCoordinateError{Lat: lat, Lon: lon}
	}

	cell, err := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lon}, res)
	if err != nil {
		return "", &InvalidCoordinateError{Lat: lat, Lon: lon}
	}
	return cell.String(), nil
}

// Boundary returns the closed boundary ring for a cell identifier.
func Boundary(id string) (Geometry, error) {
	cell := h3.Cell(h3.IndexFromString(id))
	if !cell.IsValid() {
		return Geometry{}, &UnknownCellError{ID: id}
	}

	bnd, err := cell.Boundary()
	if err != nil {
		return Geometry{}, &UnknownCellError{ID: id}
	}

	ring := make(orb.Ring, 0, len(bnd)+1)
	for _, v := range bnd {
		ring = append(ring, orb.Point{v.Lng, v.Lat})
	}
	// Close the ring: H3 boundaries come back open.
	ring = append(ring, ring[0])

	shape := ShapeHexagon
	if cell.IsPentagon() {
		shape = ShapePentagon
	}

	return Geometry{ID: id, Shape: shape, Ring: ring}, nil
}

// Resolution returns the resolution encoded in a cell identifier.
func Resolution(id string) (int, error) {
	cell := h3.Cell(h3.IndexFromString(id))
	if !cell.IsValid() {
		return 0, &UnknownCellError{ID: id}
	}
	return cell.Resolution(), nil
}

// Center returns the cell's center point as (lat, lon).
func Center(id string) (float64, float64, error) {
	cell := h3.Cell(h3.IndexFromString(id))
	if !cell.IsValid() {
		return 0, 0, &UnknownCellError{ID: id}
	}
	ll, err := cell.LatLng()
	if err != nil {
		return 0, 0, &UnknownCellError{ID: id}
	}
	return ll.Lat, ll.Lng, nil
}

// Neighbors returns the identifiers of the cell and its immediate ring
// (grid disk of radius 1).
func Neighbors(id string) ([]string, error) {
	cell := h3.Cell(h3.IndexFromString(id))
	if !cell.IsValid() {
		return nil, &UnknownCellError{ID: id}
	}
	disk, err := cell.GridDisk(1)
	if err != nil {
		return nil, &UnknownCellError{ID: id}
	}
	out := make([]string, 0, len(disk))
	for _, c := range disk {
		out = append(out, c.String())
	}
	return out, nil
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
