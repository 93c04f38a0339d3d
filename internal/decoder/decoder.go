package decoder

import (
	"bytes"
	"fmt"
	"image"

	// Registered formats accepted for uploads.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/let5sne/IOPaint/internal/errors"
	"github.com/let5sne/IOPaint/internal/raster"
)

// DecodeFunc turns encoded bytes into an image.
type DecodeFunc func(data []byte) (image.Image, error)

// ConfigFunc reads the format header without decoding pixels.
type ConfigFunc func(data []byte) (image.Config, error)

//go:generate mockgen -source=decoder.go -destination=mocks/mock_decoder.go

// ImageDecoder validates and decodes uploaded images and masks.
type ImageDecoder interface {
	DecodeImage(data []byte) (*raster.Image, error)
	DecodeMask(data []byte) (*raster.Mask, error)
}

// Decoder enforces the upload byte limit and the image dimension limit.
type Decoder struct {
	maxFileSize  int64
	maxDimension int
	decode       DecodeFunc
	config       ConfigFunc
}

var _ ImageDecoder = (*Decoder)(nil)

// Option customizes a Decoder.
type Option func(*Decoder)

// WithDecodeFunc replaces the standard library decoder.
func WithDecodeFunc(fn DecodeFunc) Option {
	return func(d *Decoder) {
		d.decode = fn
	}
}

// WithConfigFunc replaces the standard library header reader.
func WithConfigFunc(fn ConfigFunc) Option {
	return func(d *Decoder) {
		d.config = fn
	}
}

// NewDecoder creates a decoder with the given limits.
func NewDecoder(maxFileSize int64, maxDimension int, opts ...Option) *Decoder {
	d := &Decoder{
		maxFileSize:  maxFileSize,
		maxDimension: maxDimension,
		decode:       decodeStd,
		config:       decodeConfigStd,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecodeImage checks the byte limit, reads the header, checks the dimension
// limit, decodes and converts to RGB, in that order. Pixels are never
// allocated for an image whose header exceeds the dimension limit.
func (d *Decoder) DecodeImage(data []byte) (*raster.Image, error) {
	if int64(len(data)) > d.maxFileSize {
		return nil, apperrors.NewPayloadTooLargeError(d.maxFileSize)
	}

	hdr, err := d.config(data)
	if err != nil {
		return nil, apperrors.NewInvalidImageFormatError(err)
	}
	if max(hdr.Width, hdr.Height) > d.maxDimension {
		return nil, apperrors.NewImageTooLargeError(hdr.Width, hdr.Height, d.maxDimension)
	}

	src, err := d.decode(data)
	if err != nil {
		return nil, apperrors.NewInvalidImageFormatError(err)
	}

	b := src.Bounds()
	if max(b.Dx(), b.Dy()) > d.maxDimension {
		return nil, apperrors.NewImageTooLargeError(b.Dx(), b.Dy(), d.maxDimension)
	}
	return raster.FromImage(src), nil
}

// DecodeMask checks the byte limit and decodes to a single channel. Mask
// dimensions are reconciled with the image by the mask resolver, so only the
// pixel count is bounded here.
func (d *Decoder) DecodeMask(data []byte) (*raster.Mask, error) {
	if int64(len(data)) > d.maxFileSize {
		return nil, apperrors.NewPayloadTooLargeError(d.maxFileSize)
	}

	hdr, err := d.config(data)
	if err != nil {
		return nil, apperrors.NewInvalidMaskFormatError(err)
	}
	if limit := int64(d.maxDimension) * int64(d.maxDimension); int64(hdr.Width)*int64(hdr.Height) > limit {
		return nil, apperrors.NewInvalidMaskFormatError(
			fmt.Errorf("mask %dx%d exceeds %d pixels", hdr.Width, hdr.Height, limit))
	}

	src, err := d.decode(data)
	if err != nil {
		return nil, apperrors.NewInvalidMaskFormatError(err)
	}
	return raster.MaskFromImage(src), nil
}

func decodeStd(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

func decodeConfigStd(data []byte) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	return cfg, err
}
