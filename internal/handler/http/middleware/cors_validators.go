package middleware

import (
	"strings"
)

// OriginValidator decides whether a cross-origin request is admitted.
type OriginValidator interface {
	// IsAllowed reports whether origin may receive CORS headers.
	IsAllowed(origin string) bool

	// AllowedOrigins returns the configured origins for diagnostics.
	AllowedOrigins() []string
}

// WhitelistValidator admits an exact list of origins.
// Comparison ignores case and a trailing slash.
type WhitelistValidator struct {
	allowed map[string]struct{}
	origins []string
}

// NewWhitelistValidator creates a validator for origins. Empty entries are skipped.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	v := &WhitelistValidator{allowed: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		if origin == "" {
			continue
		}
		if _, dup := v.allowed[origin]; dup {
			continue
		}
		v.allowed[origin] = struct{}{}
		v.origins = append(v.origins, origin)
	}
	return v
}

// IsAllowed implements OriginValidator.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	_, ok := v.allowed[origin]
	return ok
}

// AllowedOrigins implements OriginValidator.
func (v *WhitelistValidator) AllowedOrigins() []string {
	out := make([]string, len(v.origins))
	copy(out, v.origins)
	return out
}

func normalizeOrigin(origin string) string {
	origin = strings.ToLower(strings.TrimSpace(origin))
	return strings.TrimSuffix(origin, "/")
}
