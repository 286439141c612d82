package newsapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/infra/newsapi"
)

const endpoint = "https://newsapi.test/v2/top-headlines"

func newTestClient(t *testing.T) *newsapi.Client {
	t.Helper()

	httpClient := &http.Client{}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	cfg := newsapi.DefaultConfig()
	cfg.BaseURL = endpoint
	cfg.APIKey = "test-key"
	return newsapi.NewClient(cfg, httpClient)
}

func strPtr(s string) *string { return &s }

func TestClient_TopHeadlines_Success(t *testing.T) {
	client := newTestClient(t)

	var gotQuery map[string][]string
	var gotUA string
	httpmock.RegisterResponder(http.MethodGet, endpoint, func(req *http.Request) (*http.Response, error) {
		gotQuery = req.URL.Query()
		gotUA = req.Header.Get("User-Agent")
		return httpmock.NewStringResponse(http.StatusOK, `{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{"source": {"id": null, "name": "A"}, "title": "First", "description": "one", "url": "https://a.test/1", "urlToImage": "http://x/y.png"},
				{"source": {"id": null, "name": "B"}, "title": "Second", "description": null, "url": "https://b.test/2", "urlToImage": null}
			]
		}`), nil
	})

	articles, err := client.TopHeadlines(context.Background(), "us")
	require.NoError(t, err)

	want := []entity.Article{
		{Title: "First", Description: strPtr("one"), URL: "https://a.test/1", URLToImage: strPtr("http://x/y.png")},
		{Title: "Second", URL: "https://b.test/2"},
	}
	if diff := cmp.Diff(want, articles); diff != "" {
		t.Errorf("TopHeadlines() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"us"}, gotQuery["country"])
	assert.Equal(t, []string{"test-key"}, gotQuery["apiKey"])
	assert.Equal(t, "newsfeed/1.0", gotUA)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClient_TopHeadlines_ArticlesField(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantNil bool
		wantLen int
	}{
		{name: "absent field", body: `{"status":"ok","totalResults":0}`, wantNil: true},
		{name: "null field", body: `{"status":"ok","articles":null}`, wantNil: true},
		{name: "empty list", body: `{"status":"ok","articles":[]}`, wantNil: false, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			httpmock.RegisterResponder(http.MethodGet, endpoint, httpmock.NewStringResponder(http.StatusOK, tt.body))

			articles, err := client.TopHeadlines(context.Background(), "us")
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, articles)
				return
			}
			assert.NotNil(t, articles)
			assert.Len(t, articles, tt.wantLen)
		})
	}
}

func TestClient_TopHeadlines_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		check     func(t *testing.T, err error)
	}{
		{
			name:      "unauthorized with api error body",
			responder: httpmock.NewStringResponder(http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, newsapi.ErrUnexpectedStatus)
				var se *newsapi.StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
				assert.Equal(t, "apiKeyInvalid", se.Code)
			},
		},
		{
			name:      "server error without body",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, ""),
			check: func(t *testing.T, err error) {
				var se *newsapi.StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, "headlines endpoint returned 500", se.Error())
			},
		},
		{
			name:      "transport error",
			responder: httpmock.NewErrorResponder(errors.New("connection refused")),
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "connection refused")
				assert.NotContains(t, err.Error(), "test-key")
				assert.Contains(t, err.Error(), "apiKey=%2A%2A%2A%2A")
			},
		},
		{
			name:      "invalid json",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"articles": [`),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, newsapi.ErrDecode)
			},
		},
		{
			name:      "wrong json shape",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"articles": "nope"}`),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, newsapi.ErrDecode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			httpmock.RegisterResponder(http.MethodGet, endpoint, tt.responder)

			articles, err := client.TopHeadlines(context.Background(), "us")
			require.Error(t, err)
			assert.Nil(t, articles)
			tt.check(t, err)
		})
	}
}

func TestClient_TopHeadlines_ContextCanceled(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, endpoint, func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.TopHeadlines(ctx, "us")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
