package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/let5sne/IOPaint/internal/raster"
	"github.com/let5sne/IOPaint/internal/strategy"
)

func TestIOPaintEngine_RoundTrip(t *testing.T) {
	var got inpaintRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, inpaintPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		raw, err := base64.StdEncoding.DecodeString(got.Image)
		require.NoError(t, err)
		src, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)

		// echo the image back with the first pixel painted white
		out := raster.FromImage(src)
		out.Set(0, 0, 255, 255, 255)
		w.Header().Set("Content-Type", "image/png")
		require.NoError(t, out.EncodePNG(w))
	}))
	defer server.Close()

	engine := NewIOPaintEngine(server.URL, "lama", 0)
	assert.Equal(t, "iopaint:lama", engine.Name())

	cfg := DefaultConfig()
	cfg.HDStrategy = strategy.Crop

	img := raster.NewImage(6, 4)
	res, err := engine.Inpaint(context.Background(), img, raster.NewMask(6, 4, 255), cfg)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Width)
	assert.Equal(t, 4, res.Height)
	r, _, _ := res.At(0, 0)
	assert.Equal(t, uint8(255), r)

	assert.Equal(t, "Crop", got.HDStrategy)
	assert.Equal(t, 128, got.HDStrategyCropMargin)
	assert.Equal(t, 800, got.HDStrategyCropTriggerSize)
	assert.Equal(t, 2048, got.HDStrategyResizeLimit)

	rawMask, err := base64.StdEncoding.DecodeString(got.Mask)
	require.NoError(t, err)
	maskImg, _, err := image.Decode(bytes.NewReader(rawMask))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), maskImg.Bounds())
}

func TestIOPaintEngine_ServerErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "CUDA out of memory", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewIOPaintEngine(server.URL, "lama", 0).
		Inpaint(context.Background(), raster.NewImage(2, 2), raster.NewMask(2, 2, 255), DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "CUDA out of memory")
	assert.Equal(t, int32(1), calls.Load())
}

func TestIOPaintEngine_UndecodableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a png"))
	}))
	defer server.Close()

	_, err := NewIOPaintEngine(server.URL, "lama", 0).
		Inpaint(context.Background(), raster.NewImage(2, 2), raster.NewMask(2, 2, 255), DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode iopaint response")
}

func TestIOPaintEngine_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewIOPaintEngine(url, "lama", 0).
		Inpaint(context.Background(), raster.NewImage(2, 2), raster.NewMask(2, 2, 255), DefaultConfig())
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
