package markup

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ironsheep/template-render/internal/visual"
)

const defaultFontSize = 12

var (
	regularFont = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(goregular.TTF) })
	boldFont    = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(gobold.TTF) })
)

// newFace returns a face whose units are device-independent pixels: at
// DPI 72 one point is one unit.
func newFace(size float64, bold bool) (font.Face, error) {
	parse := regularFont
	if bold {
		parse = boldFont
	}
	f, err := parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

var textBlockAttrs = withCommon(map[string]attrSpec{
	"Text":          {kind: kindString},
	"FontSize":      {kind: kindNumber},
	"FontWeight":    {kind: kindEnum, values: []string{"Normal", "Bold"}},
	"Foreground":    {kind: kindBrush},
	"Background":    {kind: kindBrush},
	"TextAlignment": {kind: kindEnum, values: []string{"Left", "Center", "Right"}},
})

type faceKey struct {
	size float64
	bold bool
}

// TextBlock draws one or more lines of text. Lines are separated by "\n"
// and never wrap.
type TextBlock struct {
	element

	face    font.Face
	faceKey faceKey
}

// NewTextBlock returns an empty TextBlock.
func NewTextBlock() *TextBlock {
	t := &TextBlock{}
	t.init(t, "TextBlock", textBlockAttrs)
	return t
}

// Text returns the resolved text content.
func (t *TextBlock) Text() string { return t.str("Text") }

func (t *TextBlock) fontKey() faceKey {
	size := t.number("FontSize", defaultFontSize)
	if size <= 0 {
		size = defaultFontSize
	}
	return faceKey{size: size, bold: t.enum("FontWeight", "Normal") == "Bold"}
}

func (t *TextBlock) measureFace() (font.Face, error) {
	key := t.fontKey()
	if t.face != nil && t.faceKey == key {
		return t.face, nil
	}
	face, err := newFace(key.size, key.bold)
	if err != nil {
		return nil, err
	}
	if t.face != nil {
		t.face.Close()
	}
	t.face, t.faceKey = face, key
	return face, nil
}

func (t *TextBlock) lines() []string {
	return strings.Split(t.Text(), "\n")
}

func lineHeight(face font.Face) float64 {
	return float64(face.Metrics().Height) / 64
}

func (t *TextBlock) measureOverride(visual.Size) visual.Size {
	face, err := t.measureFace()
	if err != nil {
		t.err = err
		return visual.Size{}
	}
	lines := t.lines()
	var width float64
	for _, line := range lines {
		width = math.Max(width, float64(font.MeasureString(face, line))/64)
	}
	return visual.Size{Width: math.Ceil(width), Height: math.Ceil(lineHeight(face) * float64(len(lines)))}
}

func (t *TextBlock) render(dc *drawContext, bounds visual.Rect) error {
	if bg, ok := t.brush("Background"); ok {
		dc.fillRect(bounds, bg)
	}
	fg := black
	if v, ok := t.value("Foreground"); ok {
		fg = v.(color.NRGBA)
	}
	if fg.A == 0 {
		return nil
	}

	face, err := t.measureFace()
	if err != nil {
		return err
	}
	key := t.faceKey
	ascent := float64(face.Metrics().Ascent) / 64
	height := lineHeight(face)
	align := t.enum("TextAlignment", "Left")

	for i, line := range t.lines() {
		if line == "" {
			continue
		}
		x := bounds.X
		if align != "Left" {
			w := float64(font.MeasureString(face, line)) / 64
			switch align {
			case "Center":
				x += (bounds.Width - w) / 2
			case "Right":
				x += bounds.Width - w
			}
		}
		y := bounds.Y + ascent + float64(i)*height
		if err := dc.drawText(line, x, y, key.size, key.bold, fg); err != nil {
			return err
		}
	}
	return nil
}

func (t *TextBlock) release() {
	if t.face != nil {
		t.face.Close()
		t.face = nil
	}
}

// LineBreak separates lines inside a TextBlock's content. It is consumed by
// the parser and never appears in the tree.
const lineBreakTag = "LineBreak"
