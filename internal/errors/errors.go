package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeUnauthorized       ErrorType = "unauthorized"
	ErrorTypePayloadTooLarge    ErrorType = "payload_too_large"
	ErrorTypeInvalidImageFormat ErrorType = "invalid_image_format"
	ErrorTypeInvalidMaskFormat  ErrorType = "invalid_mask_format"
	ErrorTypeImageTooLarge      ErrorType = "image_too_large"
	ErrorTypeInferenceFailed    ErrorType = "inference_failed"
	ErrorTypeMetricsDisabled    ErrorType = "metrics_disabled"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewUnauthorizedError creates a new authentication error. The message is
// returned to the client, so it must never contain the configured secret.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewPayloadTooLargeError reports an upload above the byte limit.
func NewPayloadTooLargeError(maxBytes int64) *AppError {
	return &AppError{
		Type:       ErrorTypePayloadTooLarge,
		Message:    fmt.Sprintf("Image too large. Max size: %s", formatMegabytes(maxBytes)),
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidImageFormatError wraps a decoder failure for the primary image.
func NewInvalidImageFormatError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidImageFormat,
		Message:    fmt.Sprintf("Invalid image format: %v", cause),
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewInvalidMaskFormatError wraps a decoder failure for the mask.
func NewInvalidMaskFormatError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidMaskFormat,
		Message:    fmt.Sprintf("Invalid mask format: %v", cause),
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewImageTooLargeError reports an image whose larger side exceeds maxDimension.
func NewImageTooLargeError(width, height, maxDimension int) *AppError {
	return &AppError{
		Type:       ErrorTypeImageTooLarge,
		Message:    fmt.Sprintf("Image too large. Max dimension: %dpx", maxDimension),
		Details:    fmt.Sprintf("got %dx%d", width, height),
		StatusCode: http.StatusBadRequest,
	}
}

// NewInferenceFailedError creates a new inference error. The cause is kept for
// server-side logging only; clients see a generic message.
func NewInferenceFailedError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInferenceFailed,
		Message:    "Processing failed",
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewMetricsDisabledError is returned by the stats endpoints when statistics are off.
func NewMetricsDisabledError() *AppError {
	return &AppError{
		Type:       ErrorTypeMetricsDisabled,
		Message:    "Metrics disabled",
		StatusCode: http.StatusNotFound,
	}
}

// AsAppError finds an *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Classify returns err as an *AppError, treating anything uncategorized as an
// inference failure.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return NewInferenceFailedError(err)
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func formatMegabytes(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%.1fMB", float64(n)/mib)
}
