package markup

import (
	"math"

	"github.com/ironsheep/template-render/internal/visual"
)

func withCommon(own map[string]attrSpec) map[string]attrSpec {
	specs := make(map[string]attrSpec, len(commonAttrs)+len(own))
	for k, v := range commonAttrs {
		specs[k] = v
	}
	for k, v := range own {
		specs[k] = v
	}
	return specs
}

var stackPanelAttrs = withCommon(map[string]attrSpec{
	"Orientation": {kind: kindEnum, values: []string{"Vertical", "Horizontal"}},
	"Background":  {kind: kindBrush},
})

// StackPanel lays its children out in a single row or column.
type StackPanel struct {
	element
}

// NewStackPanel returns an empty vertical StackPanel.
func NewStackPanel() *StackPanel {
	p := &StackPanel{}
	p.init(p, "StackPanel", stackPanelAttrs)
	return p
}

func (p *StackPanel) horizontal() bool {
	return p.enum("Orientation", "Vertical") == "Horizontal"
}

func (p *StackPanel) measureOverride(available visual.Size) visual.Size {
	horizontal := p.horizontal()
	childAvail := available
	if horizontal {
		childAvail.Width = math.Inf(1)
	} else {
		childAvail.Height = math.Inf(1)
	}

	var total visual.Size
	for _, c := range p.children {
		c.Measure(childAvail)
		d := c.DesiredSize()
		if horizontal {
			total.Width += d.Width
			total.Height = math.Max(total.Height, d.Height)
		} else {
			total.Width = math.Max(total.Width, d.Width)
			total.Height += d.Height
		}
	}
	return total
}

func (p *StackPanel) arrangeOverride(final visual.Size) visual.Size {
	horizontal := p.horizontal()
	var offset float64
	for _, c := range p.children {
		d := c.DesiredSize()
		if horizontal {
			c.Arrange(visual.Rect{X: offset, Width: d.Width, Height: final.Height})
			offset += d.Width
		} else {
			c.Arrange(visual.Rect{Y: offset, Width: final.Width, Height: d.Height})
			offset += d.Height
		}
	}
	return final
}

func (p *StackPanel) render(dc *drawContext, bounds visual.Rect) error {
	if bg, ok := p.brush("Background"); ok {
		dc.fillRect(bounds, bg)
	}
	return nil
}

var borderAttrs = withCommon(map[string]attrSpec{
	"Background":      {kind: kindBrush},
	"BorderBrush":     {kind: kindBrush},
	"BorderThickness": {kind: kindThickness},
	"Padding":         {kind: kindThickness},
	"CornerRadius":    {kind: kindNumber},
})

// Border draws a background and frame around at most one child.
type Border struct {
	element
}

// NewBorder returns an empty Border.
func NewBorder() *Border {
	b := &Border{}
	b.init(b, "Border", borderAttrs)
	return b
}

// Child returns the single child, or nil.
func (b *Border) Child() Element {
	if len(b.children) == 0 {
		return nil
	}
	return b.children[0]
}

func (b *Border) chrome() visual.Thickness {
	bt, pad := b.thickness("BorderThickness"), b.thickness("Padding")
	return visual.Thickness{
		Left:   bt.Left + pad.Left,
		Top:    bt.Top + pad.Top,
		Right:  bt.Right + pad.Right,
		Bottom: bt.Bottom + pad.Bottom,
	}
}

func (b *Border) measureOverride(available visual.Size) visual.Size {
	chrome := b.chrome()
	var inner visual.Size
	if c := b.Child(); c != nil {
		c.Measure(chrome.Shrink(available))
		inner = c.DesiredSize()
	}
	return chrome.Inflate(inner)
}

func (b *Border) arrangeOverride(final visual.Size) visual.Size {
	if c := b.Child(); c != nil {
		c.Arrange(visual.RectFromSize(final).Deflate(b.chrome()))
	}
	return final
}

func (b *Border) render(dc *drawContext, bounds visual.Rect) error {
	radius := math.Max(b.number("CornerRadius", 0), 0)
	if bg, ok := b.brush("Background"); ok {
		if radius > 0 {
			dc.fillRoundedRect(bounds, radius, bg)
		} else {
			dc.fillRect(bounds, bg)
		}
	}

	stroke, ok := b.brush("BorderBrush")
	bt := b.thickness("BorderThickness")
	if !ok || bt == (visual.Thickness{}) {
		return nil
	}
	if radius > 0 && bt == visual.Uniform(bt.Left) {
		dc.strokeRoundedRect(bounds.Deflate(visual.Uniform(bt.Left/2)), radius, bt.Left, stroke)
		return nil
	}
	dc.fillRect(visual.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bt.Top}, stroke)
	dc.fillRect(visual.Rect{X: bounds.X, Y: bounds.Y + bounds.Height - bt.Bottom, Width: bounds.Width, Height: bt.Bottom}, stroke)
	dc.fillRect(visual.Rect{X: bounds.X, Y: bounds.Y, Width: bt.Left, Height: bounds.Height}, stroke)
	dc.fillRect(visual.Rect{X: bounds.X + bounds.Width - bt.Right, Y: bounds.Y, Width: bt.Right, Height: bounds.Height}, stroke)
	return nil
}
