// Package feed implements the NewsFeed component: one top-headlines fetch per mounted
// instance, a loading / error / ready view, and a case-insensitive title filter.
// Registry owns mounted instances and disposes them when their session goes idle.
package feed

import "errors"

// User-facing messages. They are fixed strings; the underlying cause is only logged.
const (
	MessageNoNews      = "No news found."
	MessageFetchFailed = "Failed to fetch news."
)

// Sentinel errors for NewsFeed operations.
var (
	// ErrNoNews indicates the endpoint answered successfully without any article.
	ErrNoNews = errors.New("no news found")

	// ErrFetchFailed indicates a transport, status, or decode failure.
	// The returned error also wraps the cause.
	ErrFetchFailed = errors.New("failed to fetch news")

	// ErrAlreadyInitialized is returned by every Initialize call after the first.
	ErrAlreadyInitialized = errors.New("news feed already initialized")

	// ErrDisposed indicates the instance was disposed before its fetch settled.
	ErrDisposed = errors.New("news feed disposed")
)

// UserMessage maps a settle error to the text shown to users.
// It returns "" for nil and MessageFetchFailed for anything that is not ErrNoNews.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoNews):
		return MessageNoNews
	default:
		return MessageFetchFailed
	}
}
