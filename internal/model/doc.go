// Package model defines shared data types used across the bathymetry gridding pipeline.
//
// Conventions:
//   - Coordinates: WGS84 decimal degrees, longitude east-positive
//   - Depths: meters, positive down
//   - Timestamps: time.Time, always UTC
//   - Cell identifiers: 15-character lowercase hex H3 index strings
package model
