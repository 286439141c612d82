package middleware

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	pkgconfig "newsfeed/internal/pkg/config"
)

// DefaultAllowedOrigins is the development host shell.
var DefaultAllowedOrigins = []string{"http://localhost:3000"}

var (
	defaultAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	defaultAllowedHeaders = []string{
		"Content-Type", "X-Request-ID",
		"HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger", "HX-Trigger-Name",
	}
	defaultExposedHeaders = []string{"X-Request-ID", "X-Trace-Id"}
)

// LoadCORSConfig loads the CORS policy from environment variables.
//
// Environment variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origins (default: http://localhost:3000)
//   - CORS_ALLOWED_METHODS: comma-separated methods (default: GET, POST, OPTIONS)
//   - CORS_ALLOWED_HEADERS: comma-separated headers (default: Content-Type, X-Request-ID, HX-*)
//   - CORS_MAX_AGE: preflight cache seconds (default: 86400)
//
// Invalid origins or methods are an error; an invalid max age falls back with a warning.
func LoadCORSConfig(logger *slog.Logger) (*CORSConfig, []string, error) {
	origins := pkgconfig.LoadEnvStringList("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins)
	for _, origin := range origins {
		if err := validateOrigin(origin); err != nil {
			return nil, nil, fmt.Errorf("invalid CORS_ALLOWED_ORIGINS: %w", err)
		}
	}

	var methods []string
	for _, m := range pkgconfig.LoadEnvStringList("CORS_ALLOWED_METHODS", defaultAllowedMethods) {
		m = strings.ToUpper(m)
		if err := validateMethod(m); err != nil {
			return nil, nil, fmt.Errorf("invalid CORS_ALLOWED_METHODS: %w", err)
		}
		methods = append(methods, m)
	}

	headers := pkgconfig.LoadEnvStringList("CORS_ALLOWED_HEADERS", defaultAllowedHeaders)

	maxAge := pkgconfig.LoadEnvInt("CORS_MAX_AGE", 86400, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 0, 7*86400)
	})

	return &CORSConfig{
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		ExposedHeaders:   defaultExposedHeaders,
		AllowCredentials: true,
		MaxAge:           maxAge.Value.(int),
		Validator:        NewWhitelistValidator(origins),
		Logger:           logger,
	}, maxAge.Warnings, nil
}

// validateOrigin accepts scheme://host[:port] only.
func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("origin '%s': %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	}
	if u.Host == "" {
		return fmt.Errorf("origin must include a host: %s", origin)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("origin must not include path, query, or fragment: %s", origin)
	}
	if strings.HasSuffix(origin, "/") {
		return fmt.Errorf("origin must not have trailing slash: %s", origin)
	}
	return nil
}

func validateMethod(method string) error {
	switch method {
	case "GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS", "HEAD":
		return nil
	default:
		return fmt.Errorf("unsupported HTTP method '%s'", method)
	}
}
