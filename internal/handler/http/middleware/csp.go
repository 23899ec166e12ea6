package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"newsletter-feed/pkg/security/csp"
)

// CSPConfig selects a Content-Security-Policy per path prefix.
type CSPConfig struct {
	Enabled bool

	// DefaultPolicy applies when no prefix in PathPolicies matches.
	DefaultPolicy csp.Policy

	// PathPolicies maps path prefixes to policies. The longest match wins.
	PathPolicies map[string]csp.Policy

	ReportOnly bool
}

// CSP returns middleware setting the policy selected for the request path.
func CSP(cfg CSPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy := selectPolicy(cfg, r.URL.Path)
			if cfg.ReportOnly {
				policy = policy.ReportOnly(true)
			}
			if value := policy.Build(); value != "" {
				w.Header().Set(policy.HeaderName(), value)
				slog.Debug("CSP header applied",
					slog.String("path", r.URL.Path),
					slog.String("header", policy.HeaderName()),
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func selectPolicy(cfg CSPConfig, path string) csp.Policy {
	longest := ""
	matched := cfg.DefaultPolicy
	for prefix, policy := range cfg.PathPolicies {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(longest) {
			longest = prefix
			matched = policy
		}
	}
	return matched
}
