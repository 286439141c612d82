package feed_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"newsfeed/internal/domain/entity"
)

// stubFetcher は HeadlinesFetcher のテスト用実装
type stubFetcher struct {
	mu        sync.Mutex
	calls     int
	countries []string

	articles []entity.Article
	err      error
	// non-nil の場合、close されるか ctx が終わるまで応答しない
	release chan struct{}
}

func (s *stubFetcher) TopHeadlines(ctx context.Context, country string) ([]entity.Article, error) {
	s.mu.Lock()
	s.calls++
	s.countries = append(s.countries, country)
	release := s.release
	s.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.articles, s.err
}

func (s *stubFetcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func sampleArticles() []entity.Article {
	return []entity.Article{
		{Title: "Go 1.25 Released", Description: strPtr("new toolchain"), URL: "https://example.com/go", URLToImage: strPtr("http://x/y.png")},
		{Title: "Markets rally", URL: "https://example.com/markets"},
		{Title: "Why golang wins", Description: strPtr(""), URL: "https://example.com/why", URLToImage: strPtr("")},
	}
}
