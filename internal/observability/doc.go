// Package observability groups the service's structured logging, Prometheus metrics,
// and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics for headline fetches and mounted feeds
//   - tracing: OpenTelemetry tracer and HTTP server middleware
package observability
