// Package coverage answers spatial questions about a run's indexed cells.
//
// The index stores one lightweight entry per (cell, survey) pair and backs
// bounding-box queries with an R-tree, so region lookups stay O(log N) as
// cell counts grow. It also derives per-survey coverage extents for the
// extent output layer.
package coverage
