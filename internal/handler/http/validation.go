package http

import (
	"net/http"

	"newsfeed/internal/handler/http/respond"
)

const (
	maxPathLength  = 2048
	maxQueryLength = 4096
)

// InputValidation returns middleware that limits request inputs.
// It enforces limits on:
//   - URI path length (2KB)
//   - raw query length (4KB)
//   - request body size (maxBodyBytes)
func InputValidation(maxBodyBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathLength || len(r.URL.RawQuery) > maxQueryLength {
				respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "URI too long"})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}
