package inference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/let5sne/IOPaint/internal/raster"
)

func newTestDiffusion(t *testing.T) *DiffusionEngine {
	t.Helper()
	pool := NewWorkerPool(3)
	pool.Start()
	t.Cleanup(pool.Close)
	return NewDiffusionEngine(0, pool)
}

func grayImage(w, h int, v uint8) *raster.Image {
	img := raster.NewImage(w, h)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestDiffusion_FillsHoleFromSurroundings(t *testing.T) {
	engine := newTestDiffusion(t)

	img := grayImage(20, 20, 100)
	m := raster.NewMask(20, 20, 0)
	for y := 8; y < 12; y++ {
		for x := 8; x < 12; x++ {
			img.Set(x, y, 0, 0, 0)
			m.Pix[y*20+x] = 255
		}
	}

	out, err := engine.Inpaint(context.Background(), img, m, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 20, out.Width)
	require.Equal(t, 20, out.Height)

	r, g, b := out.At(10, 10)
	assert.InDelta(t, 100, int(r), 3)
	assert.InDelta(t, 100, int(g), 3)
	assert.InDelta(t, 100, int(b), 3)

	r, _, _ = out.At(0, 0)
	assert.Equal(t, uint8(100), r, "unmasked pixels are preserved")
}

func TestDiffusion_FullMaskKeepsUniformImage(t *testing.T) {
	engine := newTestDiffusion(t)

	out, err := engine.Inpaint(context.Background(), grayImage(7, 5, 42), raster.NewMask(7, 5, 255), DefaultConfig())
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(42), v)
	}
}

func TestDiffusion_SoftMaskBlendsWithOriginal(t *testing.T) {
	engine := newTestDiffusion(t)

	img := grayImage(3, 1, 200)
	img.Set(1, 0, 0, 0, 0)
	m := raster.NewMask(3, 1, 0)
	m.Pix[1] = 128

	out, err := engine.Inpaint(context.Background(), img, m, DefaultConfig())
	require.NoError(t, err)

	r, _, _ := out.At(1, 0)
	assert.InDelta(t, 100, int(r), 2)
}

func TestDiffusion_SinglePixelImage(t *testing.T) {
	engine := newTestDiffusion(t)

	out, err := engine.Inpaint(context.Background(), grayImage(1, 1, 9), raster.NewMask(1, 1, 255), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []uint8{9, 9, 9}, out.Pix)
}

func TestDiffusion_CancelledContext(t *testing.T) {
	engine := newTestDiffusion(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Inpaint(ctx, grayImage(4, 4, 0), raster.NewMask(4, 4, 255), DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiffusion_UnknownStrategy(t *testing.T) {
	engine := newTestDiffusion(t)

	cfg := DefaultConfig()
	cfg.HDStrategy = "Tile"

	_, err := engine.Inpaint(context.Background(), grayImage(4, 4, 0), raster.NewMask(4, 4, 255), cfg)
	assert.Error(t, err)
	assert.Equal(t, "diffusion", engine.Name())
}
