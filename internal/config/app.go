// Package config loads the service-level configuration: listen address, session and
// mount lifetime settings, and the remote manifest that host shells read.
package config

import (
	"fmt"
	"regexp"
	"time"

	"newsfeed/internal/domain/entity"
	pkgconfig "newsfeed/internal/pkg/config"
)

const (
	// DefaultHTTPAddr matches the port the host shell expects the remote on.
	DefaultHTTPAddr = ":3006"

	// DefaultPlaceholderImageURL replaces missing article images.
	DefaultPlaceholderImageURL = "https://via.placeholder.com/400x200?text=No+Image"

	// minSessionSecretLength is the minimum SESSION_SECRET size in bytes.
	minSessionSecretLength = 32
)

var countryPattern = regexp.MustCompile(`^[a-z]{2}$`)

// AppConfig holds the service configuration.
type AppConfig struct {
	HTTPAddr string
	Version  string

	// SessionSecret signs the session cookie. Empty means a random key per process,
	// which unmounts every browser session on restart.
	SessionSecret []byte

	// MountTTL is how long an idle browser session keeps its fragment instance.
	MountTTL time.Duration

	Country             string
	PlaceholderImageURL string

	// CircuitBreakerEnabled guards the headlines client with a circuit breaker.
	CircuitBreakerEnabled bool

	CSPEnabled    bool
	CSPReportOnly bool

	// RemoteConfigPath optionally points to a YAML remote manifest.
	RemoteConfigPath string
	// RemotePublicPath is the public URL of this remote.
	RemotePublicPath string
}

// LoadAppConfig loads AppConfig from environment variables.
// Invalid optional values fall back to defaults and are returned as warnings;
// a too-short SESSION_SECRET is an error.
func LoadAppConfig() (*AppConfig, []string, error) {
	var warnings []string
	collect := func(r pkgconfig.ConfigLoadResult) pkgconfig.ConfigLoadResult {
		warnings = append(warnings, r.Warnings...)
		return r
	}

	cfg := &AppConfig{
		HTTPAddr:         pkgconfig.LoadEnvString("HTTP_ADDR", DefaultHTTPAddr),
		Version:          pkgconfig.LoadEnvString("VERSION", "dev"),
		RemoteConfigPath: pkgconfig.LoadEnvString("REMOTE_CONFIG_PATH", ""),
	}

	cfg.MountTTL = collect(pkgconfig.LoadEnvDuration("MOUNT_TTL", 30*time.Minute, func(d time.Duration) error {
		return pkgconfig.ValidateDuration(d, time.Minute, 24*time.Hour)
	})).Value.(time.Duration)

	cfg.Country = collect(pkgconfig.LoadEnvWithFallback("NEWS_COUNTRY", "us", func(v string) error {
		if !countryPattern.MatchString(v) {
			return fmt.Errorf("must be a two-letter lower-case country code")
		}
		return nil
	})).Value.(string)

	cfg.PlaceholderImageURL = collect(pkgconfig.LoadEnvWithFallback("PLACEHOLDER_IMAGE_URL", DefaultPlaceholderImageURL, func(v string) error {
		return entity.ValidateURL("PLACEHOLDER_IMAGE_URL", v)
	})).Value.(string)

	cfg.RemotePublicPath = collect(pkgconfig.LoadEnvWithFallback("REMOTE_PUBLIC_PATH", DefaultPublicPath, validatePublicPath)).Value.(string)

	cfg.CircuitBreakerEnabled = collect(pkgconfig.LoadEnvBool("NEWSAPI_CIRCUIT_BREAKER", true)).Value.(bool)
	cfg.CSPEnabled = collect(pkgconfig.LoadEnvBool("CSP_ENABLED", true)).Value.(bool)
	cfg.CSPReportOnly = collect(pkgconfig.LoadEnvBool("CSP_REPORT_ONLY", false)).Value.(bool)

	if secret := pkgconfig.LoadEnvString("SESSION_SECRET", ""); secret != "" {
		if len(secret) < minSessionSecretLength {
			return nil, warnings, &entity.ValidationError{
				Field:   "SESSION_SECRET",
				Message: fmt.Sprintf("must be at least %d bytes", minSessionSecretLength),
			}
		}
		cfg.SessionSecret = []byte(secret)
	}

	return cfg, warnings, nil
}
