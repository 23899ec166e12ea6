package middleware

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Defaults for the public newsletter API.
var (
	DefaultCORSMethods = []string{"GET", "OPTIONS"}
	DefaultCORSHeaders = []string{"Content-Type", "X-Request-ID"}
)

// DefaultCORSMaxAge is the preflight cache duration in seconds.
const DefaultCORSMaxAge = 86400

// EnvConfigSource loads CORS configuration from environment variables.
//
// Environment Variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origins, or "*" (default "*")
//   - CORS_ALLOWED_METHODS: comma-separated methods (default GET, OPTIONS)
//   - CORS_ALLOWED_HEADERS: comma-separated request headers
//   - CORS_MAX_AGE: preflight cache duration in seconds (default 86400)
type EnvConfigSource struct{}

// LoadOrigins parses CORS_ALLOWED_ORIGINS. Each origin must be a bare
// http(s) scheme and host.
func (s *EnvConfigSource) LoadOrigins() ([]string, error) {
	return ParseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))
}

// ParseOrigins validates a comma-separated origin list. Empty input means
// WildcardOrigin.
func ParseOrigins(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{WildcardOrigin}, nil
	}

	origins := make([]string, 0)
	for _, originStr := range strings.Split(raw, ",") {
		originStr = strings.TrimSpace(originStr)
		if originStr == "" {
			continue
		}
		if originStr == WildcardOrigin {
			origins = append(origins, originStr)
			continue
		}

		u, err := url.Parse(originStr)
		if err != nil {
			return nil, fmt.Errorf("invalid origin URL '%s': %w", originStr, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("origin must use http or https scheme: %s", originStr)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("origin must include a host: %s", originStr)
		}
		if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
			return nil, fmt.Errorf("origin must be scheme and host only: %s", originStr)
		}
		if strings.HasSuffix(originStr, "/") {
			return nil, fmt.Errorf("origin must not have trailing slash: %s", originStr)
		}
		origins = append(origins, originStr)
	}

	if len(origins) == 0 {
		return nil, fmt.Errorf("at least one valid origin must be configured in CORS_ALLOWED_ORIGINS")
	}
	return origins, nil
}

// LoadMethods parses CORS_ALLOWED_METHODS.
func (s *EnvConfigSource) LoadMethods() ([]string, error) {
	methodsStr := strings.TrimSpace(os.Getenv("CORS_ALLOWED_METHODS"))
	if methodsStr == "" {
		return append([]string(nil), DefaultCORSMethods...), nil
	}

	validMethods := map[string]bool{
		"GET":     true,
		"HEAD":    true,
		"POST":    true,
		"OPTIONS": true,
	}

	methods := make([]string, 0)
	for _, method := range strings.Split(methodsStr, ",") {
		method = strings.ToUpper(strings.TrimSpace(method))
		if method == "" {
			continue
		}
		if !validMethods[method] {
			return nil, fmt.Errorf("invalid HTTP method '%s': must be one of GET, HEAD, POST, OPTIONS", method)
		}
		methods = append(methods, method)
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("at least one valid HTTP method must be configured in CORS_ALLOWED_METHODS")
	}
	return methods, nil
}

// LoadHeaders parses CORS_ALLOWED_HEADERS.
func (s *EnvConfigSource) LoadHeaders() ([]string, error) {
	headersStr := strings.TrimSpace(os.Getenv("CORS_ALLOWED_HEADERS"))
	if headersStr == "" {
		return append([]string(nil), DefaultCORSHeaders...), nil
	}

	headers := make([]string, 0)
	for _, header := range strings.Split(headersStr, ",") {
		if header = strings.TrimSpace(header); header != "" {
			headers = append(headers, header)
		}
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("at least one valid header must be configured in CORS_ALLOWED_HEADERS")
	}
	return headers, nil
}

// LoadMaxAge parses CORS_MAX_AGE.
func (s *EnvConfigSource) LoadMaxAge() (int, error) {
	maxAgeStr := strings.TrimSpace(os.Getenv("CORS_MAX_AGE"))
	if maxAgeStr == "" {
		return DefaultCORSMaxAge, nil
	}

	maxAge, err := strconv.Atoi(maxAgeStr)
	if err != nil {
		return 0, fmt.Errorf("invalid CORS_MAX_AGE '%s': must be a valid integer", maxAgeStr)
	}
	if maxAge < 0 {
		return 0, fmt.Errorf("CORS_MAX_AGE must be non-negative, got: %d", maxAge)
	}
	return maxAge, nil
}

// LoadCORSConfig loads CORS configuration from environment variables.
func LoadCORSConfig() (*CORSConfig, error) {
	return LoadCORSConfigFromSource(&EnvConfigSource{}, nil)
}

// LoadCORSConfigFromSource loads CORS configuration from source. logger may
// be nil and injected later.
func LoadCORSConfigFromSource(source ConfigSource, logger CORSLogger) (*CORSConfig, error) {
	origins, err := source.LoadOrigins()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed origins: %w", err)
	}
	methods, err := source.LoadMethods()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed methods: %w", err)
	}
	headers, err := source.LoadHeaders()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed headers: %w", err)
	}
	maxAge, err := source.LoadMaxAge()
	if err != nil {
		return nil, fmt.Errorf("failed to load max age: %w", err)
	}

	return &CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
		MaxAge:         maxAge,
		Validator:      NewWhitelistValidator(origins),
		Logger:         logger,
	}, nil
}
