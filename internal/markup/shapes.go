package markup

import (
	"math"

	"github.com/ironsheep/template-render/internal/visual"
)

var shapeAttrs = withCommon(map[string]attrSpec{
	"Fill":            {kind: kindBrush},
	"Stroke":          {kind: kindBrush},
	"StrokeThickness": {kind: kindNumber},
})

// Rectangle fills and strokes its arranged bounds. Without Width and
// Height it has no natural size.
type Rectangle struct {
	element
}

// NewRectangle returns a Rectangle with no fill.
func NewRectangle() *Rectangle {
	r := &Rectangle{}
	r.init(r, "Rectangle", shapeAttrs)
	return r
}

func (r *Rectangle) render(dc *drawContext, bounds visual.Rect) error {
	if fill, ok := r.brush("Fill"); ok {
		dc.fillRect(bounds, fill)
	}
	if stroke, ok := r.brush("Stroke"); ok {
		t := math.Max(r.number("StrokeThickness", 1), 0)
		if t > 0 {
			dc.strokeRect(bounds.Deflate(visual.Uniform(t/2)), t, stroke)
		}
	}
	return nil
}

// Ellipse fills and strokes the ellipse inscribed in its arranged bounds.
type Ellipse struct {
	element
}

// NewEllipse returns an Ellipse with no fill.
func NewEllipse() *Ellipse {
	e := &Ellipse{}
	e.init(e, "Ellipse", shapeAttrs)
	return e
}

func (e *Ellipse) render(dc *drawContext, bounds visual.Rect) error {
	if fill, ok := e.brush("Fill"); ok {
		dc.fillEllipse(bounds, fill)
	}
	if stroke, ok := e.brush("Stroke"); ok {
		t := math.Max(e.number("StrokeThickness", 1), 0)
		if t > 0 {
			dc.strokeEllipse(bounds.Deflate(visual.Uniform(t/2)), t, stroke)
		}
	}
	return nil
}
