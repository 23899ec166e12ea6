package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://us1.campaign-archive.com/?u=abc&id=def", wantErr: false},
		{name: "valid http URL", url: "http://example.com/newsletter", wantErr: false},
		{name: "valid URL with port", url: "http://127.0.0.1:8080/archive", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "relative URL", url: "/newsletter/42", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/feed", wantErr: true},
		{name: "invalid scheme - javascript", url: "javascript:alert(1)", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "malformed URL", url: "ht!tp://example.com", wantErr: true},
		{name: "URL exceeding maximum length", url: "https://example.com/" + strings.Repeat("a", 2050), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("Spring Issue"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateTitle("   "); err == nil {
		t.Error("expected error for blank title")
	}
}
