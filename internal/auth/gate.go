// Package auth guards the API with a single shared key.
package auth

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/let5sne/IOPaint/internal/errors"
	"github.com/let5sne/IOPaint/internal/logger"
)

// HeaderName carries the client's key.
const HeaderName = "X-API-Key"

const (
	msgMissingKey = "Missing API Key. Please provide X-API-Key header."
	msgInvalidKey = "Invalid API Key"
)

// ErrorRenderer writes an error response and aborts the request.
type ErrorRenderer func(c *gin.Context, err error)

// Gate checks presented keys against the configured secret.
type Gate struct {
	secret []byte
}

// NewGate creates a gate for secret.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Verify returns an unauthorized error unless key equals the secret.
func (g *Gate) Verify(key string) error {
	if key == "" {
		return apperrors.NewUnauthorizedError(msgMissingKey)
	}
	if subtle.ConstantTimeCompare([]byte(key), g.secret) != 1 {
		logger.WithFields(logrus.Fields{
			"key_prefix": redact(key),
		}).Warn("Invalid API key attempt")
		return apperrors.NewUnauthorizedError(msgInvalidKey)
	}
	return nil
}

// Middleware rejects requests whose X-API-Key header fails Verify.
func (g *Gate) Middleware(render ErrorRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.Verify(c.GetHeader(HeaderName)); err != nil {
			render(c, err)
			return
		}
		c.Next()
	}
}

// redact keeps at most the first 8 characters of a rejected key
func redact(key string) string {
	if r := []rune(key); len(r) > 8 {
		key = string(r[:8])
	}
	return key + "..."
}
