// Package newsapi implements the outbound client of the top-headlines REST endpoint.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
	"newsfeed/internal/observability/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// topHeadlinesResponse mirrors the endpoint's JSON body.
// Articles stays nil when the field is absent or null.
type topHeadlinesResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []entity.Article `json:"articles"`
}

// errorResponse is returned by the endpoint alongside non-2xx statuses.
type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client fetches top headlines. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a headlines client. When httpClient is nil a dedicated client is built
// from cfg; pass one explicitly to share transports or to stub the network in tests.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Client{httpClient: httpClient, config: cfg}
}

// TopHeadlines issues GET <BaseURL>?country=<country>&apiKey=<key> and returns the
// articles in response order. A nil slice means the response carried no articles field.
// Transport failures, non-2xx statuses, and undecodable bodies are returned as errors.
func (c *Client) TopHeadlines(ctx context.Context, country string) ([]entity.Article, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "newsapi.TopHeadlines",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("newsapi.country", country)),
	)
	defer span.End()

	articles, statusCode, err := c.do(ctx, country)
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "headlines request failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("newsapi.articles", len(articles)))
	return articles, nil
}

func (c *Client) do(ctx context.Context, country string) ([]entity.Article, int, error) {
	reqURL, err := c.requestURL(country)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create headlines request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordHeadlinesRequest(0, time.Since(start))
		// url.Error にはクエリ付き URL が含まれるため API キーを伏せる
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactAPIKey(urlErr.URL)
		}
		return nil, 0, fmt.Errorf("headlines request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	metrics.RecordHeadlinesRequest(resp.StatusCode, time.Since(start))

	body := io.LimitReader(resp.Body, c.config.MaxBodySize)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var apiErr errorResponse
		if json.NewDecoder(body).Decode(&apiErr) == nil {
			statusErr.Code = apiErr.Code
			statusErr.Message = apiErr.Message
		}
		return nil, resp.StatusCode, statusErr
	}

	var payload topHeadlinesResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, resp.StatusCode, fmt.Errorf("%w: truncated or empty body", ErrDecode)
		}
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return payload.Articles, resp.StatusCode, nil
}

func (c *Client) requestURL(country string) (string, error) {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse headlines endpoint: %w", err)
	}
	q := u.Query()
	q.Set("country", country)
	q.Set("apiKey", c.config.APIKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func redactAPIKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Get("apiKey") == "" {
		return rawURL
	}
	q.Set("apiKey", "****")
	u.RawQuery = q.Encode()
	return u.String()
}
