package strategy

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/let5sne/IOPaint/internal/mask"
	"github.com/let5sne/IOPaint/internal/raster"
)

// Strategy names, matching the values IOPaint servers accept.
const (
	Original = "Original"
	Resize   = "Resize"
	Crop     = "Crop"
)

// InpaintFunc runs a model on an image and an equally sized mask.
type InpaintFunc func(ctx context.Context, img *raster.Image, m *raster.Mask) (*raster.Image, error)

// Params are the size thresholds used by the Resize and Crop strategies.
type Params struct {
	CropMargin      int
	CropTriggerSize int
	ResizeLimit     int
}

// HDStrategy decides at which resolution and over which region a model runs
type HDStrategy interface {
	Apply(ctx context.Context, img *raster.Image, m *raster.Mask, run InpaintFunc) (*raster.Image, error)
	GetStrategyName() string
}

// New returns the strategy registered under name.
func New(name string, params Params) (HDStrategy, error) {
	switch name {
	case Original, "":
		return originalStrategy{}, nil
	case Resize:
		if params.ResizeLimit <= 0 {
			return nil, fmt.Errorf("resize strategy requires a positive resize limit")
		}
		return resizeStrategy{limit: params.ResizeLimit}, nil
	case Crop:
		if params.CropTriggerSize <= 0 || params.CropMargin < 0 {
			return nil, fmt.Errorf("crop strategy requires a positive trigger size and non-negative margin")
		}
		return cropStrategy{margin: params.CropMargin, trigger: params.CropTriggerSize}, nil
	default:
		return nil, fmt.Errorf("unsupported hd strategy: %q", name)
	}
}

// originalStrategy runs the model on the whole image at its original resolution
type originalStrategy struct{}

func (originalStrategy) Apply(ctx context.Context, img *raster.Image, m *raster.Mask, run InpaintFunc) (*raster.Image, error) {
	return run(ctx, img, m)
}

func (originalStrategy) GetStrategyName() string {
	return Original
}

// resizeStrategy downscales large images before running the model
type resizeStrategy struct {
	limit int
}

func (s resizeStrategy) Apply(ctx context.Context, img *raster.Image, m *raster.Mask, run InpaintFunc) (*raster.Image, error) {
	longest := max(img.Width, img.Height)
	if longest <= s.limit {
		return run(ctx, img, m)
	}

	scale := float64(s.limit) / float64(longest)
	w := max(1, int(math.Round(float64(img.Width)*scale)))
	h := max(1, int(math.Round(float64(img.Height)*scale)))

	small := raster.FromImage(imaging.Resize(img.ToNRGBA(), w, h, imaging.Lanczos))
	result, err := run(ctx, small, mask.Resize(m, w, h, imaging.Lanczos))
	if err != nil {
		return nil, err
	}

	upscaled := raster.FromImage(imaging.Resize(result.ToNRGBA(), img.Width, img.Height, imaging.Lanczos))
	return pasteMasked(img.Clone(), upscaled, m, image.Point{}), nil
}

func (resizeStrategy) GetStrategyName() string {
	return Resize
}

// cropStrategy runs the model only around the masked region of large images
type cropStrategy struct {
	margin  int
	trigger int
}

func (s cropStrategy) Apply(ctx context.Context, img *raster.Image, m *raster.Mask, run InpaintFunc) (*raster.Image, error) {
	if max(img.Width, img.Height) <= s.trigger {
		return run(ctx, img, m)
	}

	box, ok := m.Bounds()
	if !ok {
		// nothing to repaint
		return img.Clone(), nil
	}
	box = image.Rect(box.Min.X-s.margin, box.Min.Y-s.margin, box.Max.X+s.margin, box.Max.Y+s.margin).
		Intersect(image.Rect(0, 0, img.Width, img.Height))

	subMask := m.SubMask(box)
	result, err := run(ctx, img.SubImage(box), subMask)
	if err != nil {
		return nil, err
	}
	if result.Width != box.Dx() || result.Height != box.Dy() {
		return nil, fmt.Errorf("model returned %dx%d for a %dx%d crop", result.Width, result.Height, box.Dx(), box.Dy())
	}
	return pasteMasked(img.Clone(), result, subMask, box.Min), nil
}

func (cropStrategy) GetStrategyName() string {
	return Crop
}

// pasteMasked copies src into dst at offset wherever the mask marks a pixel
// for repainting (value >= 127).
func pasteMasked(dst, src *raster.Image, m *raster.Mask, offset image.Point) *raster.Image {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if m.At(x, y) < 127 {
				continue
			}
			r, g, b := src.At(x, y)
			dst.Set(offset.X+x, offset.Y+y, r, g, b)
		}
	}
	return dst
}
