// Package writer renders indexed records and cell summaries as vector files.
//
// Writers:
//   - GeoJSON FeatureCollections (records, aggregate summaries, survey extents)
//   - ESRI shapefiles with a WGS84 .prj sidecar
//
// Artifact basenames encode resolution and observation period so separate runs
// never collide. All outputs are write-once; writing over an existing artifact
// fails with *OutputExistsError unless overwrite is configured.
package writer
