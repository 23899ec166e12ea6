// Package csp builds Content-Security-Policy header values for the pages the
// newsletter service serves: the rendered widget, Swagger UI and JSON APIs.
package csp

import "strings"

// Header names.
const (
	HeaderEnforce    = "Content-Security-Policy"
	HeaderReportOnly = "Content-Security-Policy-Report-Only"
)

// directiveOrder fixes the output order so headers are stable across runs.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"script-src-attr",
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

// Policy is a set of CSP directives. Methods return a modified copy, so a
// shared base policy can be specialised per route without aliasing.
type Policy struct {
	directives map[string][]string
	reportOnly bool
}

// New returns an empty policy.
func New() Policy {
	return Policy{directives: map[string][]string{}}
}

// With sets directive to sources, replacing any previous value.
// Sources that are blank are dropped; a directive with no sources is removed.
func (p Policy) With(directive string, sources ...string) Policy {
	out := p.clone()
	kept := make([]string, 0, len(sources))
	for _, s := range sources {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(out.directives, directive)
		return out
	}
	out.directives[directive] = kept
	return out
}

// ReportOnly toggles report-only mode.
func (p Policy) ReportOnly(enabled bool) Policy {
	out := p.clone()
	out.reportOnly = enabled
	return out
}

// HeaderName returns the header the policy belongs in.
func (p Policy) HeaderName() string {
	if p.reportOnly {
		return HeaderReportOnly
	}
	return HeaderEnforce
}

// Build renders the header value. An empty policy renders "".
func (p Policy) Build() string {
	parts := make([]string, 0, len(p.directives))
	for _, d := range directiveOrder {
		if sources, ok := p.directives[d]; ok {
			parts = append(parts, d+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// IsZero reports whether the policy has no directives.
func (p Policy) IsZero() bool { return len(p.directives) == 0 }

func (p Policy) clone() Policy {
	out := Policy{directives: make(map[string][]string, len(p.directives)+1), reportOnly: p.reportOnly}
	for k, v := range p.directives {
		out.directives[k] = v
	}
	return out
}

// WidgetPolicy is served with the rendered newsletter fragment. Thumbnails
// come from arbitrary https hosts and the img fallback uses an inline
// onerror attribute, hence script-src-attr.
func WidgetPolicy() Policy {
	return New().
		With("default-src", "'none'").
		With("script-src-attr", "'unsafe-inline'").
		With("style-src", "'self'", "'unsafe-inline'").
		With("img-src", "'self'", "https:", "data:").
		With("frame-ancestors", "*").
		With("base-uri", "'none'").
		With("object-src", "'none'")
}

// APIPolicy is for JSON endpoints.
func APIPolicy() Policy {
	return New().
		With("default-src", "'none'").
		With("frame-ancestors", "'none'").
		With("base-uri", "'none'")
}

// SwaggerUIPolicy allows what the bundled Swagger UI needs.
func SwaggerUIPolicy() Policy {
	return New().
		With("default-src", "'self'").
		With("script-src", "'self'", "'unsafe-inline'").
		With("style-src", "'self'", "'unsafe-inline'").
		With("img-src", "'self'", "data:", "https:").
		With("font-src", "'self'", "data:").
		With("connect-src", "'self'").
		With("frame-ancestors", "'none'").
		With("base-uri", "'self'").
		With("object-src", "'none'")
}
