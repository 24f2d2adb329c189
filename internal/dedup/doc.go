// Package dedup collapses exact duplicate records.
//
// Duplicates arise when overlapping source files carry the same observation,
// most commonly a platform submitted through two archives. Two records are
// duplicates only when their full attribute tuples are identical; the caller
// expresses the tuple as a composite key:
//
//   - indexed soundings: (cell, lat, lon, depth, time, survey attributes)
//
// The first occurrence of each key is kept and input order is preserved, so
// a deduplicated set is stable across re-runs and re-deduplication is a
// no-op.
package dedup
