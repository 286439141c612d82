package metrics

import (
	"strconv"
	"time"
)

// Outcome labels for FeedSettledTotal.
const (
	OutcomeReady  = "ready"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

// RecordHeadlinesRequest records one outbound headlines request.
// statusCode 0 means the request failed before a response arrived.
func RecordHeadlinesRequest(statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	HeadlinesRequestsTotal.WithLabelValues(status).Inc()
	HeadlinesRequestDuration.Observe(duration.Seconds())
}

// RecordFeedSettled records how an initialization settled.
func RecordFeedSettled(outcome string, articles int) {
	FeedSettledTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeReady {
		FeedArticlesReceived.Observe(float64(articles))
	}
}

// RecordFeedMounted increments the mounted gauge.
func RecordFeedMounted() {
	FeedsMounted.Inc()
}

// RecordFeedDisposed decrements the mounted gauge and counts the disposal.
func RecordFeedDisposed(settled bool) {
	FeedsMounted.Dec()
	FeedsDisposedTotal.WithLabelValues(strconv.FormatBool(settled)).Inc()
}
