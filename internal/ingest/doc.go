// Package ingest reads point soundings and survey metadata from source
// archives.
//
// Two source formats are supported:
//   - CSV with a header row (LON, LAT, DEPTH, TIME, and optional
//     PLATFORM_NAME / PROVIDER columns), the layout used by crowd-sourced
//     bathymetry archives
//   - plain XYZ text ("lon lat depth" per line, # comments allowed)
//
// Readers are strict: a malformed row fails the whole source with a
// *ReadError so the pipeline can exclude that source from the merge rather
// than publish a partial file. Depths are normalized to meters at read time
// using the source's declared unit.
package ingest
