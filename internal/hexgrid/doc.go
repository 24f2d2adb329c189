// Package hexgrid assigns WGS84 points to H3 hexagonal cells and renders
// cell boundary geometry.
//
// The package exposes two pure operations:
//   - Cell: (lat, lon, resolution) -> cell identifier
//   - Boundary: cell identifier -> closed boundary ring
//
// Both are deterministic and carry no state, so the same inputs always
// produce the same outputs regardless of ordering or batching. Twelve cells
// per resolution are pentagons; they have five corners instead of six and
// are tagged as such in the returned geometry.
package hexgrid
