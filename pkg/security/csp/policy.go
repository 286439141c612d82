// Package csp builds Content-Security-Policy header values.
package csp

import (
	"strings"
)

// Directive order in the built header.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// CSPBuilder provides a fluent interface for constructing Content-Security-Policy headers.
//
//	policy := NewCSPBuilder().
//	    DefaultSrc("'self'").
//	    ImgSrc("'self'", "https:").
//	    Build()
//	// "default-src 'self'; img-src 'self' https:"
//
// CSPBuilder is not safe for concurrent mutation. Middleware clones shared policies
// before changing them.
type CSPBuilder struct {
	directives map[string][]string
	reportOnly bool
}

// NewCSPBuilder creates a CSPBuilder with no directives.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{directives: make(map[string][]string)}
}

func (b *CSPBuilder) set(directive string, sources []string) *CSPBuilder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc sets default-src.
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder { return b.set("default-src", sources) }

// ScriptSrc sets script-src.
func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder { return b.set("script-src", sources) }

// StyleSrc sets style-src.
func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder { return b.set("style-src", sources) }

// ImgSrc sets img-src. Article images come from arbitrary publishers.
func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder { return b.set("img-src", sources) }

// FontSrc sets font-src.
func (b *CSPBuilder) FontSrc(sources ...string) *CSPBuilder { return b.set("font-src", sources) }

// ConnectSrc sets connect-src.
func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder { return b.set("connect-src", sources) }

// FrameAncestors sets frame-ancestors.
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	return b.set("frame-ancestors", sources)
}

// FormAction sets form-action.
func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder { return b.set("form-action", sources) }

// BaseURI sets base-uri.
func (b *CSPBuilder) BaseURI(sources ...string) *CSPBuilder { return b.set("base-uri", sources) }

// ObjectSrc sets object-src.
func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder { return b.set("object-src", sources) }

// ReportURI sets report-uri.
func (b *CSPBuilder) ReportURI(uri string) *CSPBuilder { return b.set("report-uri", []string{uri}) }

// ReportOnly switches the header to Content-Security-Policy-Report-Only.
func (b *CSPBuilder) ReportOnly(enabled bool) *CSPBuilder {
	b.reportOnly = enabled
	return b
}

// Clone returns an independent copy of the builder.
func (b *CSPBuilder) Clone() *CSPBuilder {
	c := &CSPBuilder{
		directives: make(map[string][]string, len(b.directives)),
		reportOnly: b.reportOnly,
	}
	for k, v := range b.directives {
		c.directives[k] = append([]string(nil), v...)
	}
	return c
}

// Build returns the header value, or "" when no directive is set.
func (b *CSPBuilder) Build() string {
	var parts []string
	for _, directive := range directiveOrder {
		if sources := b.directives[directive]; len(sources) > 0 {
			parts = append(parts, directive+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy is sent in.
func (b *CSPBuilder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// ShellPolicy is applied to the standalone development page that loads htmx from unpkg.
func ShellPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "https://unpkg.com").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:", "http:", "https:").
		ConnectSrc("'self'").
		FrameAncestors("'none'").
		BaseURI("'self'").
		FormAction("'self'").
		ObjectSrc("'none'")
}

// FragmentPolicy is applied to NewsApp fragment responses. frameAncestors lists the
// host shells allowed to frame the fragment when it is not swapped in directly.
func FragmentPolicy(frameAncestors ...string) *CSPBuilder {
	ancestors := append([]string{"'self'"}, frameAncestors...)
	return NewCSPBuilder().
		DefaultSrc("'none'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:", "http:", "https:").
		FrameAncestors(ancestors...).
		BaseURI("'none'").
		FormAction(ancestors...)
}

// SwaggerUIPolicy allows the CDN assets used by Swagger UI.
func SwaggerUIPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "'unsafe-inline'", "https://cdn.jsdelivr.net").
		StyleSrc("'self'", "'unsafe-inline'", "https://cdn.jsdelivr.net").
		ImgSrc("'self'", "data:", "https:").
		FontSrc("'self'", "data:").
		ConnectSrc("'self'", "blob:").
		FrameAncestors("'none'").
		BaseURI("'self'").
		FormAction("'self'").
		ObjectSrc("'none'")
}

// StrictPolicy is applied to JSON and probe endpoints.
func StrictPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}
