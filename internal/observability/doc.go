// Package observability groups the logging, metrics and tracing helpers shared
// by the API server and the notification workers.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP, favorites, posts and the DB pool
//   - slo: availability and error-rate gauges derived from served requests
//   - tracing: OpenTelemetry tracer provider and HTTP middleware
package observability
