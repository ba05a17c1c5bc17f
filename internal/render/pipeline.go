package render

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"

	"github.com/ironsheep/template-render/internal/dpi"
	"github.com/ironsheep/template-render/internal/imaging"
	"github.com/ironsheep/template-render/internal/visual"
)

// TemplateParser builds a template object from its serialized form. A
// renderable result implements visual.Node.
type TemplateParser interface {
	Parse(r io.Reader) (any, error)
}

// Rasterizer draws a laid-out tree into dst, scaling device-independent
// pixels by scaleX and scaleY.
type Rasterizer interface {
	Rasterize(root visual.Node, dst draw.Image, scaleX, scaleY float64) error
}

// ImageEncoder serializes a finished frame.
type ImageEncoder interface {
	Encode(w io.Writer, img image.Image) error
}

// LoadTemplate parses a template and checks that its root can be rendered.
// On failure it returns a *TemplateLoadError and no node.
func LoadTemplate(parser TemplateParser, r io.Reader) (visual.Node, error) {
	obj, err := parser.Parse(r)
	if err != nil {
		return nil, &TemplateLoadError{Reason: "template could not be parsed", Err: err}
	}
	if obj == nil {
		return nil, &TemplateLoadError{Reason: "template produced no root"}
	}
	node, ok := obj.(visual.Node)
	if !ok {
		return nil, &TemplateLoadError{Reason: fmt.Sprintf("template root %T is not a visual element", obj)}
	}
	return node, nil
}

// Bind sets data as the root's data context and returns the root.
// Descendants inherit it through the template engine.
func Bind(root visual.Node, data any) visual.Node {
	root.SetDataContext(data)
	return root
}

// AutoSize measures root with unlimited space, arranges it at exactly its
// desired size with its origin at (0, 0) and finalizes layout. Negative
// margins can leave content outside the arranged rectangle; it is clipped
// when drawn.
func AutoSize(root visual.Node) visual.Node {
	root.Measure(visual.Infinite)
	root.Arrange(visual.RectFromSize(root.DesiredSize()))
	root.UpdateLayout()
	return root
}

// DefaultMaxPixels is the largest surface a render allocates unless
// configured otherwise: 8192 x 8192, 256 MiB of pixels.
const DefaultMaxPixels int64 = 1 << 26

// RenderContent draws a laid-out root at the given resolution and encodes
// the result. The surface is dpi.Dimensions of the root's render size and
// may hold at most DefaultMaxPixels pixels.
// A nil result with a nil error means the encoder produced nothing.
func RenderContent(root visual.Node, rasterizer Rasterizer, encoder ImageEncoder, dpiX, dpiY float64) ([]byte, error) {
	surface, err := rasterize(root, rasterizer, dpiX, dpiY, DefaultMaxPixels)
	if err != nil {
		return nil, err
	}
	return encode(surface, encoder)
}

func rasterize(root visual.Node, rasterizer Rasterizer, dpiX, dpiY float64, maxPixels int64) (*imaging.Surface, error) {
	size := root.RenderSize()
	w, h := size.Width*dpi.Scale(dpiX), size.Height*dpi.Scale(dpiY)
	if err := imaging.CheckSize(w, h, maxPixels); err != nil {
		return nil, &RenderFailure{Stage: StateRasterizing, Err: err}
	}
	surface := imaging.NewSurface(dpi.Dimensions(size.Width, size.Height, dpiX, dpiY), dpiX, dpiY)
	if err := rasterizer.Rasterize(root, surface, dpi.Scale(dpiX), dpi.Scale(dpiY)); err != nil {
		return nil, &RenderFailure{Stage: StateRasterizing, Err: err}
	}
	return surface, nil
}

func encode(surface *imaging.Surface, encoder ImageEncoder) ([]byte, error) {
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, surface); err != nil {
		return nil, &RenderFailure{Stage: StateEncoding, Err: err}
	}
	if buf.Len() == 0 {
		return nil, nil
	}
	return buf.Bytes(), nil
}
