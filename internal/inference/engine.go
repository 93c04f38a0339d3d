// Package inference runs inpainting engines behind a single call boundary.
package inference

import (
	"context"

	"github.com/let5sne/IOPaint/internal/raster"
)

//go:generate mockgen -source=engine.go -destination=mocks/mock_engine.go

// Engine repaints the masked region of an image. Implementations must
// return an image with the input's dimensions.
type Engine interface {
	Inpaint(ctx context.Context, img *raster.Image, m *raster.Mask, cfg Config) (*raster.Image, error)
	Name() string
}

// InferenceInvoker runs one inference for one request.
type InferenceInvoker interface {
	Invoke(ctx context.Context, img *raster.Image, m *raster.Mask) (*Result, error)
	EngineName() string
}
