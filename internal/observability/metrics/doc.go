// Package metrics holds the process-wide Prometheus collectors.
//
// Everything registers with the default registry through promauto and is
// served on /metrics.
package metrics
