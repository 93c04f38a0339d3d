package container

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/let5sne/IOPaint/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Host:            "127.0.0.1",
		Port:            "8080",
		APIKey:          "container-test-key",
		MetricsEnabled:  true,
		MaxImageSize:    4096,
		MaxFileSize:     config.MaxFileSize,
		ModelName:       "lama",
		Device:          "cpu",
		InferenceEngine: config.EngineDiffusion,
	}
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(testConfig())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "diffusion", c.EngineName())
	assert.NotNil(t, c.Handler())
	assert.Equal(t, "lama", c.Config().ModelName)
	assert.Zero(t, c.Stats().TotalRequests)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("X-API-Key", "container-test-key")
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "iopaint_requests_total")
}

func TestNewContainer_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("X-API-Key", "container-test-key")
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewContainer_UnknownEngine(t *testing.T) {
	cfg := testConfig()
	cfg.InferenceEngine = "onnx"

	_, err := NewContainer(cfg)
	assert.Error(t, err)
}
