// Package tracing configures the OpenTelemetry tracer provider and traces
// incoming HTTP requests.
//
// Spans started by the HTTP middleware are linked from the asynchronous
// notify.fanout spans, and the W3C trace context is injected into outgoing
// webhook and NATS messages.
package tracing
