// Package aggregate summarizes indexed soundings into per-group statistics.
//
// Two grouping modes exist and are never combined implicitly:
//   - ModeSpatial: one group per cell identifier (median depth per cell)
//   - ModeTemporal: one group per survey period key ("YYYY-MM")
//
// Groups always partition the input: every record lands in exactly one
// group. The reported median is exact; an even-sized group averages the two
// middle values.
package aggregate
