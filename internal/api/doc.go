// Package api provides the REST client for the bathymetry bulk-order service.
//
// Endpoints:
//   - POST /orders       submit an extract order (201 Created on acceptance)
//   - GET  /orders/{id}  current order status and output location
//
// Transient failures (5xx, 429) are retried with exponential backoff and
// jitter; anything else is surfaced immediately as an *APIError.
package api
