package markup

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/ironsheep/template-render/internal/visual"
)

var black = color.NRGBA{A: 0xff}

// ErrLayoutNotUpdated is returned when asked to draw a tree whose layout
// is stale.
var ErrLayoutNotUpdated = errors.New("layout is not up to date")

// Rasterizer draws element trees.
type Rasterizer struct{}

// Rasterize draws root over dst. One device-independent pixel maps to
// scaleX by scaleY device pixels. The root is placed at dst's origin and
// anything outside dst is clipped. The tree's layout must be current.
func (Rasterizer) Rasterize(root visual.Node, dst draw.Image, scaleX, scaleY float64) error {
	el, ok := root.(Element)
	if !ok {
		return fmt.Errorf("cannot rasterize %T: not a template element", root)
	}
	if !el.base().layoutUpdated {
		return ErrLayoutNotUpdated
	}
	if err := el.Err(); err != nil {
		return err
	}

	b := dst.Bounds()
	if b.Empty() {
		return nil
	}

	if canvas, ok := dst.(rgbaCanvas); ok && b.Min == (image.Point{}) {
		return canvas.DrawRGBA(func(im *image.RGBA) error {
			dc := newDrawContext(gg.NewContextForRGBA(im), scaleX, scaleY)
			defer dc.close()
			return drawTree(dc, el)
		})
	}

	dc := newDrawContext(gg.NewContext(b.Dx(), b.Dy()), scaleX, scaleY)
	defer dc.close()
	if err := drawTree(dc, el); err != nil {
		return err
	}
	draw.Copy(dst, b.Min, dc.gc.Image(), dc.gc.Image().Bounds(), draw.Over, nil)
	return nil
}

// rgbaCanvas is a destination that can expose its own memory as RGBA, so
// the tree is drawn in place instead of into a second full-size buffer.
type rgbaCanvas interface {
	DrawRGBA(fn func(*image.RGBA) error) error
}

func drawTree(dc *drawContext, el Element) error {
	e := el.base()
	if !e.visible() {
		return nil
	}
	if err := el.render(dc, el.AbsoluteBounds()); err != nil {
		return fmt.Errorf("%s: %w", describe(el), err)
	}
	for _, c := range el.Children() {
		if err := drawTree(dc, c); err != nil {
			return err
		}
	}
	return nil
}

func describe(el Element) string {
	if name := el.Name(); name != "" {
		return fmt.Sprintf("%s %q", el.Kind(), name)
	}
	return el.Kind()
}

// drawContext wraps a gg context scaled from device-independent pixels to
// device pixels. Line widths, glyphs and bitmaps do not follow gg's
// transform, so they are scaled here.
type drawContext struct {
	gc             *gg.Context
	scaleX, scaleY float64
	faces          map[faceKey]font.Face
}

// maxGlyphSize bounds the pixel size of drawn text. Glyph masks grow with
// the square of the size.
const maxGlyphSize = 4096

func newDrawContext(gc *gg.Context, scaleX, scaleY float64) *drawContext {
	gc.Scale(scaleX, scaleY)
	return &drawContext{gc: gc, scaleX: scaleX, scaleY: scaleY, faces: make(map[faceKey]font.Face)}
}

func (dc *drawContext) close() {
	for _, f := range dc.faces {
		f.Close()
	}
	dc.faces = nil
}

func (dc *drawContext) lineWidth(w float64) float64 {
	return w * (dc.scaleX + dc.scaleY) / 2
}

func (dc *drawContext) fillRect(r visual.Rect, c color.NRGBA) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	dc.gc.SetColor(c)
	dc.gc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.gc.Fill()
}

func (dc *drawContext) strokeRect(r visual.Rect, width float64, c color.NRGBA) {
	dc.gc.SetColor(c)
	dc.gc.SetLineWidth(dc.lineWidth(width))
	dc.gc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.gc.Stroke()
}

func (dc *drawContext) fillRoundedRect(r visual.Rect, radius float64, c color.NRGBA) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	dc.gc.SetColor(c)
	dc.gc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, clampRadius(r, radius))
	dc.gc.Fill()
}

func (dc *drawContext) strokeRoundedRect(r visual.Rect, radius, width float64, c color.NRGBA) {
	dc.gc.SetColor(c)
	dc.gc.SetLineWidth(dc.lineWidth(width))
	dc.gc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, clampRadius(r, radius))
	dc.gc.Stroke()
}

func clampRadius(r visual.Rect, radius float64) float64 {
	return math.Min(radius, math.Min(r.Width, r.Height)/2)
}

func (dc *drawContext) fillEllipse(r visual.Rect, c color.NRGBA) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	dc.gc.SetColor(c)
	dc.gc.DrawEllipse(r.X+r.Width/2, r.Y+r.Height/2, r.Width/2, r.Height/2)
	dc.gc.Fill()
}

func (dc *drawContext) strokeEllipse(r visual.Rect, width float64, c color.NRGBA) {
	dc.gc.SetColor(c)
	dc.gc.SetLineWidth(dc.lineWidth(width))
	dc.gc.DrawEllipse(r.X+r.Width/2, r.Y+r.Height/2, r.Width/2, r.Height/2)
	dc.gc.Stroke()
}

// drawText draws s with its baseline starting at (x, y).
func (dc *drawContext) drawText(s string, x, y, size float64, bold bool, c color.NRGBA) error {
	key := faceKey{size: size * dc.scaleY, bold: bold}
	if key.size > maxGlyphSize {
		return fmt.Errorf("font size %v is %.0f pixels at this resolution, above the %d pixel limit", size, key.size, maxGlyphSize)
	}
	face, ok := dc.faces[key]
	if !ok {
		var err error
		if face, err = newFace(key.size, bold); err != nil {
			return err
		}
		dc.faces[key] = face
	}
	dc.gc.SetFontFace(face)
	dc.gc.SetColor(c)
	dc.gc.DrawString(s, x, y)
	return nil
}

// drawImage scales img into dst and draws it clipped to clip.
func (dc *drawContext) drawImage(img image.Image, dst, clip visual.Rect) {
	x0, y0 := math.Round(dst.X*dc.scaleX), math.Round(dst.Y*dc.scaleY)
	fw := math.Round((dst.X+dst.Width)*dc.scaleX - x0)
	fh := math.Round((dst.Y+dst.Height)*dc.scaleY - y0)
	b := img.Bounds()
	if fw <= 0 || fh <= 0 || b.Empty() {
		return
	}

	// Pop keeps the clip mask, so it is reset explicitly.
	dc.gc.Push()
	dc.gc.DrawRectangle(clip.X, clip.Y, clip.Width, clip.Height)
	dc.gc.Clip()
	dc.gc.Identity()
	canvas := float64(dc.gc.Width()) * float64(dc.gc.Height())
	switch {
	case int(fw) == b.Dx() && int(fh) == b.Dy():
		dc.gc.DrawImage(img, int(x0), int(y0))
	case fw*fh <= canvas:
		dc.gc.DrawImage(imaging.Resize(img, int(fw), int(fh), imaging.Lanczos), int(x0), int(y0))
	default:
		// Larger than the canvas: let gg transform it instead of
		// allocating the scaled copy.
		dc.gc.Translate(x0, y0)
		dc.gc.Scale(fw/float64(b.Dx()), fh/float64(b.Dy()))
		dc.gc.DrawImage(img, 0, 0)
	}
	dc.gc.ResetClip()
	dc.gc.Pop()
}
