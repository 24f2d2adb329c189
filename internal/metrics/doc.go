// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Sounding ingest and rejection rates
//   - Indexed record and aggregated cell counts per resolution
//   - Duplicate drop counts during merge
//   - Source indexing and output write latencies
package metrics
