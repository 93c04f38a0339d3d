// Package raster holds the request-local pixel buffers passed between the
// decoder, the mask resolver and the inference engines.
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// MaskRepaint marks a pixel to be regenerated; MaskKeep marks a pixel to preserve.
const (
	MaskRepaint uint8 = 255
	MaskKeep    uint8 = 0
)

// Image is an 8-bit, 3-channel RGB raster with interleaved samples.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a black w×h image.
func NewImage(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]uint8, 3*w*h)}
}

// FromImage converts any decoded image to RGB. Alpha is dropped without
// compositing against a background.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dst := NewImage(b.Dx(), b.Dy())

	switch s := src.(type) {
	case *image.NRGBA:
		for y := 0; y < dst.Height; y++ {
			row := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
			out := dst.Pix[y*dst.Width*3:]
			for x := 0; x < dst.Width; x++ {
				out[x*3], out[x*3+1], out[x*3+2] = row[x*4], row[x*4+1], row[x*4+2]
			}
		}
	case *image.Gray:
		for y := 0; y < dst.Height; y++ {
			row := s.Pix[s.PixOffset(b.Min.X, b.Min.Y+y):]
			out := dst.Pix[y*dst.Width*3:]
			for x := 0; x < dst.Width; x++ {
				v := row[x]
				out[x*3], out[x*3+1], out[x*3+2] = v, v, v
			}
		}
	default:
		for y := 0; y < dst.Height; y++ {
			for x := 0; x < dst.Width; x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst.Set(x, y, c.R, c.G, c.B)
			}
		}
	}
	return dst
}

// At returns the RGB samples at (x, y).
func (m *Image) At(x, y int) (r, g, b uint8) {
	i := (y*m.Width + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// Set writes the RGB samples at (x, y).
func (m *Image) Set(x, y int, r, g, b uint8) {
	i := (y*m.Width + x) * 3
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Width: m.Width, Height: m.Height, Pix: pix}
}

// SubImage copies the rectangle r (clipped to the image) into a new raster.
func (m *Image) SubImage(r image.Rectangle) *Image {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	dst := NewImage(r.Dx(), r.Dy())
	for y := 0; y < dst.Height; y++ {
		src := m.Pix[((r.Min.Y+y)*m.Width+r.Min.X)*3:]
		copy(dst.Pix[y*dst.Width*3:(y+1)*dst.Width*3], src[:dst.Width*3])
	}
	return dst
}

// ToNRGBA returns an opaque standard-library image sharing no memory with m.
func (m *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, j := 0, 0; i < len(m.Pix); i, j = i+3, j+4 {
		out.Pix[j], out.Pix[j+1], out.Pix[j+2], out.Pix[j+3] = m.Pix[i], m.Pix[i+1], m.Pix[i+2], 0xff
	}
	return out
}

// EncodePNG writes m as a lossless PNG.
func (m *Image) EncodePNG(w io.Writer) error {
	return png.Encode(w, m.ToNRGBA())
}

// Mask is an 8-bit single-channel raster.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates a w×h mask with every pixel set to fill.
func NewMask(w, h int, fill uint8) *Mask {
	pix := make([]uint8, w*h)
	if fill != 0 {
		for i := range pix {
			pix[i] = fill
		}
	}
	return &Mask{Width: w, Height: h, Pix: pix}
}

// MaskFromImage converts any decoded image to a single channel using the
// standard luma weights.
func MaskFromImage(src image.Image) *Mask {
	b := src.Bounds()
	dst := NewMask(b.Dx(), b.Dy(), 0)

	if g, ok := src.(*image.Gray); ok {
		for y := 0; y < dst.Height; y++ {
			copy(dst.Pix[y*dst.Width:(y+1)*dst.Width], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return dst
	}

	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			dst.Pix[y*dst.Width+x] = color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		}
	}
	return dst
}

// At returns the mask value at (x, y).
func (m *Mask) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// SameSize reports whether m matches img's dimensions.
func (m *Mask) SameSize(img *Image) bool {
	return m.Width == img.Width && m.Height == img.Height
}

// Bounds returns the smallest rectangle containing every non-zero pixel.
// ok is false for an all-zero mask.
func (m *Mask) Bounds() (r image.Rectangle, ok bool) {
	minX, minY, maxX, maxY := m.Width, m.Height, -1, -1
	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// SubMask copies the rectangle r (clipped to the mask) into a new mask.
func (m *Mask) SubMask(r image.Rectangle) *Mask {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	dst := NewMask(r.Dx(), r.Dy(), 0)
	for y := 0; y < dst.Height; y++ {
		src := m.Pix[(r.Min.Y+y)*m.Width+r.Min.X:]
		copy(dst.Pix[y*dst.Width:(y+1)*dst.Width], src[:dst.Width])
	}
	return dst
}

// ToGray returns the mask as a standard-library image.
func (m *Mask) ToGray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(out.Pix, m.Pix)
	return out
}

// EncodePNG writes m as a grayscale PNG.
func (m *Mask) EncodePNG(w io.Writer) error {
	return png.Encode(w, m.ToGray())
}
