package validation

import (
	"testing"

	apperrors "github.com/let5sne/IOPaint/internal/errors"
)

func TestNewEndpointValidator(t *testing.T) {
	validator := NewEndpointValidator()
	if validator == nil {
		t.Fatal("Expected non-nil endpoint validator")
	}

	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Errorf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("Expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
}

func TestValidateEndpointURL_Valid(t *testing.T) {
	validator := NewEndpointValidator()

	validURLs := []string{
		"http://localhost:8080",
		"https://iopaint.internal",
		"http://10.0.0.5:8080/prefix",
	}

	for _, u := range validURLs {
		if err := validator.ValidateEndpointURL(u); err != nil {
			t.Errorf("Expected valid URL %s to pass validation, got error: %v", u, err)
		}
	}
}

func TestValidateEndpointURL_Invalid(t *testing.T) {
	validator := NewEndpointValidator()

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"bad scheme", "ftp://example.com"},
		{"no host", "http://"},
		{"query", "http://example.com?x=1"},
		{"fragment", "http://example.com#top"},
		{"unparseable", "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateEndpointURL(tt.url)
			if err == nil {
				t.Fatalf("Expected %q to fail validation", tt.url)
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}
