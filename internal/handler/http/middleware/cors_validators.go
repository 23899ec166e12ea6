package middleware

import (
	"strings"
)

// WildcardOrigin in the origin list allows every origin.
const WildcardOrigin = "*"

// WhitelistValidator matches origins exactly, ignoring case and a
// trailing slash. A list containing WildcardOrigin allows any origin.
type WhitelistValidator struct {
	allowedOrigins []string
	any            bool
}

// NewWhitelistValidator creates a validator for origins.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	v := &WhitelistValidator{allowedOrigins: make([]string, 0, len(origins))}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		if origin == "" {
			continue
		}
		if origin == WildcardOrigin {
			v.any = true
		}
		v.allowedOrigins = append(v.allowedOrigins, origin)
	}
	return v
}

// IsAllowed reports whether origin is allowed. Empty origins never are.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	if v.any {
		return true
	}
	for _, allowed := range v.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// AllowsAny reports whether the list contained WildcardOrigin.
func (v *WhitelistValidator) AllowsAny() bool {
	return v.any
}

// AllowedOrigins returns a copy of the normalized list.
func (v *WhitelistValidator) AllowedOrigins() []string {
	return append([]string(nil), v.allowedOrigins...)
}

func normalizeOrigin(origin string) string {
	origin = strings.ToLower(strings.TrimSpace(origin))
	return strings.TrimSuffix(origin, "/")
}
