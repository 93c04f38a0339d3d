package validation

import (
	"net/url"
	"strings"

	apperrors "github.com/let5sne/IOPaint/internal/errors"
)

// EndpointValidator checks the base URL of a remote inpainting server
type EndpointValidator struct {
	allowedSchemes []string
}

// NewEndpointValidator creates a validator accepting any http(s) host
func NewEndpointValidator() *EndpointValidator {
	return &EndpointValidator{
		allowedSchemes: []string{"http", "https"},
	}
}

// ValidateEndpointURL validates a server base URL. Query strings and
// fragments are rejected because request paths are appended to it.
func (v *EndpointValidator) ValidateEndpointURL(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if parsedURL.RawQuery != "" || parsedURL.Fragment != "" {
		return apperrors.NewValidationError("URL must not contain a query or fragment", nil)
	}

	return nil
}

func (v *EndpointValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}
