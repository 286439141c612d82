// Package metrics provides the Prometheus metrics of the news feed component.
//
// All metrics are registered with the Prometheus default registry and exposed
// via the /metrics endpoint. HTTP request metrics live with the HTTP middleware.
//
// Example usage:
//
//	start := time.Now()
//	articles, err := client.TopHeadlines(ctx, "us")
//	metrics.RecordHeadlinesRequest(statusLabel, time.Since(start))
package metrics
