// Package tracing provides OpenTelemetry tracing integration.
//
// The service does not install an exporter itself; whatever TracerProvider is
// registered globally (otel.SetTracerProvider) receives the spans. Without one the
// calls are no-ops.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "newsapi.TopHeadlines")
//	defer span.End()
package tracing
