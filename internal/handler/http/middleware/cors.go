// Package middleware provides the cross-origin and content-security middleware that lets
// host shells on other origins embed the NewsApp fragment.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedMethods specifies which HTTP methods are allowed in CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string

	// AllowedHeaders specifies which request headers are allowed in CORS requests.
	// The defaults include the headers htmx sends with every swap request.
	AllowedHeaders []string

	// ExposedHeaders lists response headers the host shell may read.
	ExposedHeaders []string

	// AllowCredentials lets the host shell send the session cookie that binds
	// a browser to its mounted fragment.
	AllowCredentials bool

	// MaxAge specifies how long preflight results can be cached (in seconds).
	// Default: 86400 (24 hours)
	MaxAge int

	// Validator decides which origins may embed the fragment.
	Validator OriginValidator

	// Logger receives policy violations. nil disables logging.
	Logger *slog.Logger
}

// CORS returns an HTTP middleware that handles CORS for cross-origin requests.
//
// Behavior:
//   - If Origin header is empty, skip CORS processing (same-origin request)
//   - If Origin is not allowed, log a warning and continue without CORS headers
//   - If Origin is allowed and request is OPTIONS (preflight): set the allow headers
//     and return 204 No Content without calling next
//   - If Origin is allowed and request is not OPTIONS: set allow-origin headers and call next
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			// レスポンスが Origin によって変わることをキャッシュに伝える
			w.Header().Add("Vary", "Origin")

			if config.Validator == nil || !config.Validator.IsAllowed(origin) {
				if config.Logger != nil {
					config.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("remote_addr", r.RemoteAddr))
				}
				// ヘッダーを付けなければブラウザがレスポンスをブロックする
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			if config.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))

				if config.Logger != nil {
					config.Logger.Debug("CORS: preflight request",
						slog.String("origin", origin),
						slog.String("requested_method", r.Header.Get("Access-Control-Request-Method")),
						slog.String("requested_headers", r.Header.Get("Access-Control-Request-Headers")))
				}

				w.WriteHeader(http.StatusNoContent)
				return
			}

			if len(config.ExposedHeaders) > 0 {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(config.ExposedHeaders, ", "))
			}
			next.ServeHTTP(w, r)
		})
	}
}
