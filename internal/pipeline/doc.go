// Package pipeline drives a gridding run end to end:
//
//   - Reads each manifest source concurrently and indexes its soundings
//     into hexagonal cells at every configured resolution
//   - Merges per-source records into a deterministic order and removes
//     exact duplicates
//   - Aggregates depths spatially or by survey period
//   - Renders vector artifacts and a JSON run report
//
// A source that fails to read is recorded in the report without aborting
// the run; cancellation and output errors abort.
package pipeline
