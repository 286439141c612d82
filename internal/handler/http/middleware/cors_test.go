package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCORSConfig(logger *slog.Logger) CORSConfig {
	return CORSConfig{
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "HX-Request"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           3600,
		Validator:        NewWhitelistValidator([]string{"http://localhost:3000"}),
		Logger:           logger,
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		method          string
		origin          string
		preflight       bool
		wantStatus      int
		wantAllowOrigin string
		wantNextCalled  bool
	}{
		{name: "same origin", method: http.MethodGet, wantStatus: http.StatusOK, wantNextCalled: true},
		{name: "allowed origin", method: http.MethodGet, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantAllowOrigin: "http://localhost:3000", wantNextCalled: true},
		{name: "allowed origin case-insensitive", method: http.MethodPost, origin: "HTTP://LOCALHOST:3000", wantStatus: http.StatusOK, wantAllowOrigin: "HTTP://LOCALHOST:3000", wantNextCalled: true},
		{name: "disallowed origin", method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK, wantNextCalled: true},
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:3000", preflight: true, wantStatus: http.StatusNoContent, wantAllowOrigin: "http://localhost:3000"},
		{name: "preflight disallowed", method: http.MethodOptions, origin: "https://evil.example", preflight: true, wantStatus: http.StatusOK, wantNextCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			handler := CORS(testCORSConfig(nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/NewsApp", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			assert.Equal(t, tt.wantAllowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantAllowOrigin != "" {
				assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
			}
			if tt.origin != "" {
				assert.Equal(t, "Origin", rec.Header().Get("Vary"))
			}
		})
	}
}

func TestCORS_PreflightHeaders(t *testing.T) {
	handler := CORS(testCORSConfig(nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next must not be called for preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/NewsApp/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, HX-Request", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_ExposedHeadersOnActualRequest(t *testing.T) {
	handler := CORS(testCORSConfig(nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/NewsApp", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_LogsRejectedOrigin(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	handler := CORS(testCORSConfig(logger))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/NewsApp", nil)
	req.Header.Set("Origin", "https://evil.example")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "CORS: origin not allowed")
	assert.Contains(t, buf.String(), "https://evil.example")
}

func TestCORS_NilValidatorRejects(t *testing.T) {
	cfg := testCORSConfig(nil)
	cfg.Validator = nil
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/NewsApp", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
