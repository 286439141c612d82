// Package resilience provides fault isolation for outbound calls.
//
// The circuitbreaker subpackage wraps the headlines client so that a persistently
// failing upstream (revoked API key, outage) fails new mounts fast instead of
// spending a request per visitor:
//
//	fetcher := circuitbreaker.NewFetcher(client, circuitbreaker.HeadlinesConfig())
//	articles, err := fetcher.TopHeadlines(ctx, "us")
//
// A tripped breaker surfaces as an ordinary fetch failure. Nothing here retries.
package resilience
