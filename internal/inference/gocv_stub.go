//go:build !gocv
// +build !gocv

package inference

import (
	"context"
	"errors"

	"github.com/let5sne/IOPaint/internal/raster"
)

// ErrGoCVUnavailable is returned when the binary was built without the gocv tag.
var ErrGoCVUnavailable = errors.New("gocv engine requires building with -tags gocv")

// GoCVEngine is a placeholder for builds without OpenCV.
type GoCVEngine struct {
	Radius float32
}

// NewGoCVEngine always fails without the gocv build tag.
func NewGoCVEngine() (*GoCVEngine, error) {
	return nil, ErrGoCVUnavailable
}

func (e *GoCVEngine) Name() string {
	return "gocv"
}

func (e *GoCVEngine) Inpaint(context.Context, *raster.Image, *raster.Mask, Config) (*raster.Image, error) {
	return nil, ErrGoCVUnavailable
}
