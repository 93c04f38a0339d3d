package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "error with cause",
			err:      NewInvalidImageFormatError(errors.New("unexpected EOF")),
			contains: []string{"invalid_image_format", "Invalid image format: unexpected EOF", "caused by"},
		},
		{
			name:     "error without cause",
			err:      NewMetricsDisabledError(),
			contains: []string{"metrics_disabled", "Metrics disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("image file is required", nil), ErrorTypeValidation, http.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("Invalid API Key"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"payload", NewPayloadTooLargeError(10 * 1024 * 1024), ErrorTypePayloadTooLarge, http.StatusBadRequest},
		{"image format", NewInvalidImageFormatError(errors.New("x")), ErrorTypeInvalidImageFormat, http.StatusBadRequest},
		{"mask format", NewInvalidMaskFormatError(errors.New("x")), ErrorTypeInvalidMaskFormat, http.StatusBadRequest},
		{"dimension", NewImageTooLargeError(4097, 10, 4096), ErrorTypeImageTooLarge, http.StatusBadRequest},
		{"inference", NewInferenceFailedError(errors.New("boom")), ErrorTypeInferenceFailed, http.StatusInternalServerError},
		{"metrics", NewMetricsDisabledError(), ErrorTypeMetricsDisabled, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, tt.err.Type)
			}
			if tt.err.StatusCode != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, tt.err.StatusCode)
			}
		})
	}
}

func TestMessages_StateLimits(t *testing.T) {
	if got := NewPayloadTooLargeError(10 * 1024 * 1024).Message; got != "Image too large. Max size: 10MB" {
		t.Errorf("unexpected payload message %q", got)
	}
	if got := NewImageTooLargeError(4097, 1, 4096).Message; got != "Image too large. Max dimension: 4096px" {
		t.Errorf("unexpected dimension message %q", got)
	}
}

func TestInferenceFailed_HidesCause(t *testing.T) {
	err := NewInferenceFailedError(errors.New("CUDA out of memory"))
	if strings.Contains(err.Message, "CUDA") {
		t.Errorf("client message leaks cause: %q", err.Message)
	}
	if !errors.Is(err, err.Cause) {
		t.Error("Unwrap should return the cause")
	}
}

func TestClassify(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}

	wrapped := fmt.Errorf("decode stage: %w", NewImageTooLargeError(5000, 5000, 4096))
	if got := Classify(wrapped); got.Type != ErrorTypeImageTooLarge {
		t.Errorf("Expected wrapped AppError to be found, got %s", got.Type)
	}

	if got := Classify(errors.New("unexpected")); got.Type != ErrorTypeInferenceFailed {
		t.Errorf("Expected uncategorized error to become inference_failed, got %s", got.Type)
	}
}

func TestIsTypeAndStatusCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewUnauthorizedError("Invalid API Key"))
	if !IsType(err, ErrorTypeUnauthorized) {
		t.Error("Expected IsType to see through wrapping")
	}
	if GetStatusCode(err) != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", GetStatusCode(err))
	}
	if GetStatusCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("Expected plain errors to map to 500")
	}
}
