package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream metrics track calls to the headlines endpoint.
var (
	// HeadlinesRequestsTotal counts outbound headline requests by HTTP status ("error" for transport failures)
	HeadlinesRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsapi_requests_total",
			Help: "Total number of requests to the headlines endpoint",
		},
		[]string{"status"},
	)

	// HeadlinesRequestDuration measures outbound request duration in seconds
	HeadlinesRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsapi_request_duration_seconds",
			Help:    "Headlines endpoint request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)

// Feed metrics track the lifecycle of mounted news feeds.
var (
	// FeedSettledTotal counts settled initializations by outcome (ready, empty, failed)
	FeedSettledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_settled_total",
			Help: "Total number of news feed initializations that settled, by outcome",
		},
		[]string{"outcome"},
	)

	// FeedArticlesReceived observes how many articles a successful fetch delivered
	FeedArticlesReceived = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsfeed_articles_received",
			Help:    "Number of articles delivered per successful fetch",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// FeedsMounted tracks the number of currently mounted news feeds
	FeedsMounted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsfeed_mounted",
			Help: "Number of news feeds currently mounted",
		},
	)

	// FeedsDisposedTotal counts disposed feeds, split by whether the fetch had settled
	FeedsDisposedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_disposed_total",
			Help: "Total number of disposed news feeds",
		},
		[]string{"settled"},
	)
)
