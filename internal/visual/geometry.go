package visual

import (
	"fmt"
	"math"
)

// Size is a width and height in device-independent units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Infinite is the available size used for unconstrained measurement.
var Infinite = Size{Width: math.Inf(1), Height: math.Inf(1)}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromSize returns a rectangle at the origin with the given size.
func RectFromSize(s Size) Rect {
	return Rect{Width: s.Width, Height: s.Height}
}

// Size returns the rectangle's extent.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Offset returns the rectangle translated by dx, dy.
func (r Rect) Offset(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Deflate shrinks the rectangle by t on every side. The result never has a
// negative width or height.
func (r Rect) Deflate(t Thickness) Rect {
	out := Rect{
		X:      r.X + t.Left,
		Y:      r.Y + t.Top,
		Width:  r.Width - t.Horizontal(),
		Height: r.Height - t.Vertical(),
	}
	out.Width = math.Max(out.Width, 0)
	out.Height = math.Max(out.Height, 0)
	return out
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Thickness describes the four edges of a frame such as a margin, padding
// or border.
type Thickness struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Uniform returns a thickness with the same value on all four sides.
func Uniform(v float64) Thickness {
	return Thickness{Left: v, Top: v, Right: v, Bottom: v}
}

// Horizontal is Left + Right.
func (t Thickness) Horizontal() float64 { return t.Left + t.Right }

// Vertical is Top + Bottom.
func (t Thickness) Vertical() float64 { return t.Top + t.Bottom }

// Inflate grows s by t. Infinite dimensions stay infinite.
func (t Thickness) Inflate(s Size) Size {
	return Size{Width: s.Width + t.Horizontal(), Height: s.Height + t.Vertical()}
}

// Shrink reduces s by t, clamping at zero. Infinite dimensions stay infinite.
func (t Thickness) Shrink(s Size) Size {
	return Size{
		Width:  math.Max(s.Width-t.Horizontal(), 0),
		Height: math.Max(s.Height-t.Vertical(), 0),
	}
}
