//go:build gocv
// +build gocv

package inference

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/let5sne/IOPaint/internal/raster"
	"github.com/let5sne/IOPaint/internal/strategy"
)

// GoCVEngine repaints masked pixels with OpenCV's Telea inpainting.
type GoCVEngine struct {
	Radius float32
}

var _ Engine = (*GoCVEngine)(nil)

// NewGoCVEngine creates an OpenCV-backed engine.
func NewGoCVEngine() (*GoCVEngine, error) {
	return &GoCVEngine{Radius: 3}, nil
}

func (e *GoCVEngine) Name() string {
	return "gocv"
}

// Inpaint applies the configured high-resolution strategy around cv::inpaint.
func (e *GoCVEngine) Inpaint(ctx context.Context, img *raster.Image, m *raster.Mask, cfg Config) (*raster.Image, error) {
	s, err := strategy.New(cfg.HDStrategy, cfg.StrategyParams())
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, img, m, e.inpaint)
}

func (e *GoCVEngine) inpaint(ctx context.Context, img *raster.Image, m *raster.Mask) (*raster.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// OpenCV expects BGR
	bgr := make([]byte, len(img.Pix))
	for i := 0; i < len(bgr); i += 3 {
		bgr[i], bgr[i+1], bgr[i+2] = img.Pix[i+2], img.Pix[i+1], img.Pix[i]
	}

	src, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return nil, fmt.Errorf("image to mat: %w", err)
	}
	defer src.Close()

	maskMat, err := gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8UC1, m.Pix)
	if err != nil {
		return nil, fmt.Errorf("mask to mat: %w", err)
	}
	defer maskMat.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Inpaint(src, maskMat, &dst, e.Radius, gocv.Telea)
	if dst.Empty() {
		return nil, fmt.Errorf("cv inpaint produced an empty result")
	}

	data := dst.ToBytes()
	if len(data) != len(img.Pix) {
		return nil, fmt.Errorf("cv inpaint returned %d bytes, want %d", len(data), len(img.Pix))
	}
	out := raster.NewImage(img.Width, img.Height)
	for i := 0; i < len(data); i += 3 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = data[i+2], data[i+1], data[i]
	}
	return out, nil
}
