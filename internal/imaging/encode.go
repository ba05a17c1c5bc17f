package imaging

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Encoder serializes a finished image into an image file format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// FormatEncoder writes a single frame in a lossless file format.
type FormatEncoder struct {
	Format imaging.Format
}

// PNGEncoder returns the default encoder.
func PNGEncoder() FormatEncoder {
	return FormatEncoder{Format: imaging.PNG}
}

// NewFormatEncoder returns an encoder for a format name or file extension
// such as "png", ".bmp" or "tiff". Lossy or palette formats (JPEG, GIF) are
// rejected.
func NewFormatEncoder(name string) (FormatEncoder, error) {
	if name == "" {
		return PNGEncoder(), nil
	}
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(name, "."))
	if err != nil {
		return FormatEncoder{}, fmt.Errorf("unsupported output format %q: %w", name, err)
	}
	switch f {
	case imaging.PNG, imaging.BMP, imaging.TIFF:
		return FormatEncoder{Format: f}, nil
	default:
		return FormatEncoder{}, fmt.Errorf("output format %s is not lossless", f)
	}
}

// Encode implements Encoder.
func (e FormatEncoder) Encode(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, e.Format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", e.Format, err)
	}
	return nil
}

// MimeType returns the media type of the encoder's output.
func (e FormatEncoder) MimeType() string {
	switch e.Format {
	case imaging.BMP:
		return "image/bmp"
	case imaging.TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// ThresholdEncoder flattens an image onto white, converts it to pure black
// and white and hands the result to Next. Pixels whose luminance is at or
// above Level become white.
type ThresholdEncoder struct {
	Level uint8
	Next  Encoder
}

// Encode implements Encoder.
func (e ThresholdEncoder) Encode(w io.Writer, img image.Image) error {
	next := e.Next
	if next == nil {
		next = PNGEncoder()
	}
	b := img.Bounds()
	if b.Empty() {
		return next.Encode(w, img)
	}
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)
	return next.Encode(w, segment.Threshold(flat, e.Level))
}

// MimeType returns the media type of the wrapped encoder.
func (e ThresholdEncoder) MimeType() string {
	if m, ok := e.Next.(interface{ MimeType() string }); ok {
		return m.MimeType()
	}
	return "image/png"
}
