// Package poller waits on bulk extract orders.
//
// The order poller:
//   - Checks order status on a fixed interval until the order finishes
//   - Retries transient status failures with exponential backoff
//   - Gives up after a configurable maximum wait
//   - Reads time through a swappable clock so tests can drive it
package poller
