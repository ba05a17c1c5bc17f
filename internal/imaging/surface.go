package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/template-render/internal/dpi"
)

// Surface is an in-memory premultiplied BGRA32 pixel buffer with an
// associated resolution.
type Surface struct {
	// Pix holds pixels as B, G, R, A bytes in row-major order.
	Pix []byte

	// Stride is the byte distance between vertically adjacent pixels.
	Stride int

	// Rect is the surface bounds.
	Rect image.Rectangle

	// DpiX and DpiY are the resolution the surface was allocated for. They
	// do not affect pixel addressing.
	DpiX, DpiY float64
}

// ErrTooLarge is returned by CheckSize for surfaces over the pixel limit.
var ErrTooLarge = errors.New("surface too large")

// CheckSize reports whether a surface of width by height pixels stays
// within maxPixels. Sizes are taken before truncation so that values too
// large for an int are rejected rather than wrapped.
func CheckSize(width, height float64, maxPixels int64) error {
	if math.IsNaN(width) || math.IsNaN(height) {
		return fmt.Errorf("%w: size %vx%v is not a number", ErrTooLarge, width, height)
	}
	limit := float64(maxPixels)
	if width > limit || height > limit || width*height > limit {
		return fmt.Errorf("%w: %.0fx%.0f pixels exceeds the limit of %d", ErrTooLarge, width, height, maxPixels)
	}
	return nil
}

// NewSurface allocates a transparent surface of the given pixel size.
// Zero-sized surfaces are valid and hold no pixels.
func NewSurface(size dpi.PixelDimensions, dpiX, dpiY float64) *Surface {
	w, h := max(size.Width, 0), max(size.Height, 0)
	return &Surface{
		Pix:    make([]byte, 4*w*h),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
		DpiX:   dpiX,
		DpiY:   dpiY,
	}
}

// ColorModel implements image.Image.
func (s *Surface) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle { return s.Rect }

// At implements image.Image.
func (s *Surface) At(x, y int) color.Color { return s.RGBAAt(x, y) }

// Dimensions returns the surface size in pixels.
func (s *Surface) Dimensions() dpi.PixelDimensions {
	return dpi.PixelDimensions{Width: s.Rect.Dx(), Height: s.Rect.Dy()}
}

// PixOffset returns the index of the first byte of pixel (x, y) in Pix.
func (s *Surface) PixOffset(x, y int) int {
	return (y-s.Rect.Min.Y)*s.Stride + (x-s.Rect.Min.X)*4
}

// RGBAAt returns the premultiplied color at (x, y). Points outside the
// surface are transparent.
func (s *Surface) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(s.Rect)) {
		return color.RGBA{}
	}
	i := s.PixOffset(x, y)
	p := s.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
}

// Set implements draw.Image.
func (s *Surface) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(s.Rect)) {
		return
	}
	s.SetRGBA(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

// SetRGBA stores a premultiplied color at (x, y).
func (s *Surface) SetRGBA(x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(s.Rect)) {
		return
	}
	i := s.PixOffset(x, y)
	p := s.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
}

// DrawRGBA lends the surface's memory to fn as an *image.RGBA. Red and
// blue are swapped in place before fn runs and swapped back afterwards, so
// fn sees and writes ordinary premultiplied RGBA.
func (s *Surface) DrawRGBA(fn func(*image.RGBA) error) error {
	s.swapRB()
	defer s.swapRB()
	return fn(&image.RGBA{Pix: s.Pix, Stride: s.Stride, Rect: s.Rect})
}

func (s *Surface) swapRB() {
	for i := 0; i+2 < len(s.Pix); i += 4 {
		s.Pix[i], s.Pix[i+2] = s.Pix[i+2], s.Pix[i]
	}
}

// Opaque reports whether every pixel has full alpha.
func (s *Surface) Opaque() bool {
	for i := 3; i < len(s.Pix); i += 4 {
		if s.Pix[i] != 0xff {
			return false
		}
	}
	return true
}
