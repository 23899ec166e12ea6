// Package middleware provides HTTP middleware for the newsletter API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// OriginValidator decides whether a request origin may read responses.
type OriginValidator interface {
	// IsAllowed reports whether origin is allowed.
	IsAllowed(origin string) bool

	// AllowsAny reports whether every origin is allowed. Responses then carry
	// "Access-Control-Allow-Origin: *" and never allow credentials.
	AllowsAny() bool
}

// ConfigSource loads CORS settings.
type ConfigSource interface {
	LoadOrigins() ([]string, error)
	LoadMethods() ([]string, error)
	LoadHeaders() ([]string, error)
	LoadMaxAge() (int, error)
}

// CORSLogger is the logging surface used by the CORS middleware.
type CORSLogger interface {
	Warn(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
}

// CORSConfig holds the configuration for the CORS middleware.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string

	// AllowCredentials is ignored when the validator allows any origin.
	AllowCredentials bool

	// MaxAge is how long browsers may cache a preflight result, in seconds.
	MaxAge int

	Validator OriginValidator
	Logger    CORSLogger
}

// CORS returns middleware that applies cfg to cross-origin requests and
// answers preflight requests with 204.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			switch {
			case cfg.Validator.AllowsAny():
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case cfg.Validator.IsAllowed(origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			default:
				if cfg.Logger != nil {
					cfg.Logger.Warn("CORS: origin not allowed", map[string]interface{}{
						"origin":      origin,
						"path":        r.URL.Path,
						"method":      r.Method,
						"remote_addr": r.RemoteAddr,
					})
				}
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)

				if cfg.Logger != nil {
					cfg.Logger.Debug("CORS: preflight request", map[string]interface{}{
						"origin":            origin,
						"requested_method":  r.Header.Get("Access-Control-Request-Method"),
						"requested_headers": r.Header.Get("Access-Control-Request-Headers"),
					})
				}

				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
