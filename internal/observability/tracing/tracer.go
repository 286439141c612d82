package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "newsfeed"

// GetTracer returns the tracer for creating spans.
// It is resolved from the global provider on each call so that a provider installed
// after package initialization (for example in tests) is honored.
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
