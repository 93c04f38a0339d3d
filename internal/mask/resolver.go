package mask

import (
	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"

	"github.com/let5sne/IOPaint/internal/raster"
)

// MaskResolver produces a mask with exactly the image's dimensions.
type MaskResolver interface {
	Resolve(img *raster.Image, m *raster.Mask) *raster.Mask
}

// Resolver synthesizes a full-coverage mask when none was uploaded and
// resamples uploaded masks to the image size.
type Resolver struct {
	filter imaging.ResampleFilter
}

var _ MaskResolver = (*Resolver)(nil)

// NewResolver creates a resolver that resamples with a Lanczos filter.
func NewResolver() *Resolver {
	return &Resolver{filter: imaging.Lanczos}
}

// Resolve returns a mask aligned to img. Resampling can introduce gray values
// along edges; they are passed through without re-binarizing.
func (r *Resolver) Resolve(img *raster.Image, m *raster.Mask) *raster.Mask {
	if m == nil {
		return raster.NewMask(img.Width, img.Height, raster.MaskRepaint)
	}
	if m.SameSize(img) {
		return m
	}
	return Resize(m, img.Width, img.Height, r.filter)
}

// Resize resamples m to w×h.
func Resize(m *raster.Mask, w, h int, filter imaging.ResampleFilter) *raster.Mask {
	resized := imaging.Resize(m.ToGray(), w, h, filter)

	// gray input yields equal channels, so R carries the value
	out := raster.NewMask(w, h, 0)
	for i := range out.Pix {
		out.Pix[i] = resized.Pix[i*4]
	}
	return out
}

// levels holds the 256 mask values scaled to [0, 1].
var levels = func() []float64 {
	l := make([]float64, 256)
	for v := range l {
		l[v] = float64(v) / 255
	}
	return l
}()

// Coverage returns the mean repaint weight of m in [0, 1]. The mean is taken
// over a histogram of mask values, so memory use is independent of mask size.
func Coverage(m *raster.Mask) float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	counts := make([]float64, 256)
	for _, v := range m.Pix {
		counts[v]++
	}
	return stat.Mean(levels, counts)
}
