package newsapi

import (
	"fmt"
	"time"

	"newsfeed/internal/domain/entity"
	pkgconfig "newsfeed/internal/pkg/config"
)

const (
	// DefaultBaseURL is the public top-headlines endpoint.
	DefaultBaseURL = "https://newsapi.org/v2/top-headlines"

	// DefaultCountry is the fixed country filter of the headlines page.
	DefaultCountry = "us"
)

// Config holds the configuration for the headlines client.
//
// APIKey is the only secret. It is injected here by the composition root and never read
// from the environment by the client itself.
type Config struct {
	// BaseURL is the top-headlines endpoint without query string.
	BaseURL string

	// APIKey is sent as the apiKey query parameter.
	APIKey string

	// UserAgent is sent with every request. The upstream rejects some requests without one.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	// Responses exceeding this limit fail to decode.
	// Default: 5MB
	MaxBodySize int64

	// Timeout bounds a single request. Zero means no timeout, which is the default:
	// a hung request keeps the feed in its loading state until it is disposed.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration with an empty API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		UserAgent:   "newsfeed/1.0",
		MaxBodySize: 5 * 1024 * 1024,
	}
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &entity.ValidationError{Field: "NEWS_API_KEY", Message: "API key is required"}
	}

	if err := entity.ValidateURL("NEWSAPI_BASE_URL", c.BaseURL); err != nil {
		return err
	}

	minBodySize := int64(1024)             // 1KB
	maxBodySize := int64(50 * 1024 * 1024) // 50MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Invalid optional values fall back to defaults and are reported as warnings.
//
// Environment variables:
//   - NEWS_API_KEY: API key (required)
//   - NEWSAPI_BASE_URL: endpoint (default: https://newsapi.org/v2/top-headlines)
//   - NEWSAPI_MAX_BODY_SIZE: integer in bytes (default: 5242880)
//   - NEWSAPI_TIMEOUT: duration string, "0s" disables (default: 0s)
func LoadConfigFromEnv() (Config, []string, error) {
	cfg := DefaultConfig()
	var warnings []string

	cfg.APIKey = pkgconfig.LoadEnvString("NEWS_API_KEY", "")

	base := pkgconfig.LoadEnvWithFallback("NEWSAPI_BASE_URL", DefaultBaseURL, func(v string) error {
		return entity.ValidateURL("NEWSAPI_BASE_URL", v)
	})
	cfg.BaseURL = base.Value.(string)
	warnings = append(warnings, base.Warnings...)

	size := pkgconfig.LoadEnvInt("NEWSAPI_MAX_BODY_SIZE", int(cfg.MaxBodySize), func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1024, 50*1024*1024)
	})
	cfg.MaxBodySize = int64(size.Value.(int))
	warnings = append(warnings, size.Warnings...)

	timeout := pkgconfig.LoadEnvDuration("NEWSAPI_TIMEOUT", 0, func(d time.Duration) error {
		return pkgconfig.ValidateDuration(d, 0, 5*time.Minute)
	})
	cfg.Timeout = timeout.Value.(time.Duration)
	warnings = append(warnings, timeout.Warnings...)

	if err := cfg.Validate(); err != nil {
		return cfg, warnings, fmt.Errorf("invalid headlines client configuration: %w", err)
	}

	return cfg, warnings, nil
}
