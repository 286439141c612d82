package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"newsfeed/pkg/security/csp"
)

// CSPMiddlewareConfig configures Content-Security-Policy headers.
type CSPMiddlewareConfig struct {
	// Enabled turns the middleware on. When false requests pass through untouched.
	Enabled bool

	// DefaultPolicy applies to paths without a PathPolicies entry. nil sends no header.
	DefaultPolicy *csp.CSPBuilder

	// ExactPolicies maps paths that must match exactly. They take precedence over PathPolicies.
	ExactPolicies map[string]*csp.CSPBuilder

	// PathPolicies maps path prefixes to policies. The longest matching prefix wins.
	PathPolicies map[string]*csp.CSPBuilder

	// ReportOnly sends every policy as Content-Security-Policy-Report-Only.
	ReportOnly bool
}

// CSPMiddleware applies Content-Security-Policy headers per path.
type CSPMiddleware struct {
	config  CSPMiddlewareConfig
	exact   map[string]cspHeader
	headers map[string]cspHeader
	deflt   cspHeader
}

type cspHeader struct {
	name  string
	value string
}

// NewCSPMiddleware creates the middleware. Policies are built once here.
func NewCSPMiddleware(config CSPMiddlewareConfig) *CSPMiddleware {
	m := &CSPMiddleware{
		config:  config,
		exact:   make(map[string]cspHeader, len(config.ExactPolicies)),
		headers: make(map[string]cspHeader, len(config.PathPolicies)),
	}
	m.deflt = m.build(config.DefaultPolicy)
	for path, policy := range config.ExactPolicies {
		m.exact[path] = m.build(policy)
	}
	for prefix, policy := range config.PathPolicies {
		m.headers[prefix] = m.build(policy)
	}
	return m
}

func (m *CSPMiddleware) build(policy *csp.CSPBuilder) cspHeader {
	if policy == nil {
		return cspHeader{}
	}
	p := policy.Clone()
	if m.config.ReportOnly {
		p.ReportOnly(true)
	}
	return cspHeader{name: p.HeaderName(), value: p.Build()}
}

// Middleware returns the HTTP middleware.
func (m *CSPMiddleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !m.config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			h := m.selectHeader(r.URL.Path)
			if h.value != "" {
				w.Header().Set(h.name, h.value)
				slog.Debug("CSP header applied",
					slog.String("path", r.URL.Path),
					slog.String("header", h.name))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// selectHeader returns the exact match for path, else the header for the longest
// matching path prefix, else the default.
func (m *CSPMiddleware) selectHeader(path string) cspHeader {
	if h, ok := m.exact[path]; ok {
		return h
	}
	longest := ""
	matched, found := cspHeader{}, false
	for prefix, h := range m.headers {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(longest) {
			longest, matched, found = prefix, h, true
		}
	}
	if found {
		return matched
	}
	return m.deflt
}
