package markup

import (
	"image/color"
	"math"

	"github.com/ironsheep/template-render/internal/visual"
)

// Element is one node of a parsed template tree. Every visual element type
// in this package implements it.
type Element interface {
	visual.Node

	// Kind is the element's tag name, such as "Border".
	Kind() string

	// Name is the value of the Name attribute, if any.
	Name() string

	Children() []Element
	Parent() Element

	// Bounds is the rectangle assigned by the last Arrange, relative to the
	// parent's content origin.
	Bounds() visual.Rect

	// AbsoluteBounds is the element's rectangle relative to the root's
	// origin. It is only meaningful after UpdateLayout.
	AbsoluteBounds() visual.Rect

	// OnUnloaded registers fn to run when RaiseUnloaded reaches this element.
	OnUnloaded(fn func())
	IsUnloaded() bool

	// Err returns the first error recorded by this element or a descendant
	// while measuring, such as an image source that failed to load.
	Err() error

	base() *element
	measureOverride(available visual.Size) visual.Size
	arrangeOverride(final visual.Size) visual.Size
	render(dc *drawContext, bounds visual.Rect) error
}

// element holds the state shared by all element types. Concrete types embed
// it and call init with themselves so that the layout passes can reach
// their overrides.
type element struct {
	self     Element
	kind     string
	parent   Element
	children []Element
	props    map[string]property
	specs    map[string]attrSpec

	dataContext    any
	hasDataContext bool

	desired    visual.Size
	renderSize visual.Size
	bounds     visual.Rect
	absolute   visual.Rect

	lastAvailable visual.Size
	lastFinal     visual.Rect
	measureValid  bool
	arrangeValid  bool
	layoutUpdated bool

	unloaded bool
	onUnload []func()
	err      error
}

func (e *element) init(self Element, kind string, specs map[string]attrSpec) {
	e.self = self
	e.kind = kind
	e.specs = specs
	e.props = make(map[string]property)
	e.lastAvailable = visual.Infinite
}

func (e *element) base() *element { return e }

func (e *element) Kind() string { return e.kind }

func (e *element) Name() string { return e.str("Name") }

func (e *element) Children() []Element { return e.children }

func (e *element) Parent() Element { return e.parent }

func (e *element) Bounds() visual.Rect { return e.bounds }

func (e *element) AbsoluteBounds() visual.Rect { return e.absolute }

func (e *element) DesiredSize() visual.Size { return e.desired }

func (e *element) RenderSize() visual.Size { return e.renderSize }

func (e *element) addChild(c Element) {
	c.base().parent = e.self
	e.children = append(e.children, c)
}

// Default overrides: a childless element wants no space and takes what it
// is given.
func (e *element) measureOverride(visual.Size) visual.Size { return visual.Size{} }

func (e *element) arrangeOverride(final visual.Size) visual.Size { return final }

func (e *element) render(*drawContext, visual.Rect) error { return nil }

// === Data context ===

// SetDataContext implements visual.Node. It invalidates layout, since bound
// values may change size.
func (e *element) SetDataContext(data any) {
	e.dataContext = data
	e.hasDataContext = data != nil
	e.invalidate()
}

// DataContext implements visual.Node. It returns only the value set on this
// element, not an inherited one.
func (e *element) DataContext() any {
	return e.dataContext
}

// EffectiveDataContext is the value bindings on this element resolve
// against: the local value, else the DataContext attribute, else the
// parent's effective context.
func (e *element) EffectiveDataContext() any {
	if e.hasDataContext {
		return e.dataContext
	}
	if _, ok := e.props["DataContext"]; ok {
		v, _ := e.value("DataContext")
		return v
	}
	return e.inheritedDataContext()
}

func (e *element) inheritedDataContext() any {
	if e.parent == nil {
		return nil
	}
	return e.parent.base().EffectiveDataContext()
}

// === Property access ===

// value returns the converted value of an attribute, resolving bindings.
// ok is false when the attribute is unset, unresolved or unconvertible.
func (e *element) value(name string) (any, bool) {
	p, ok := e.props[name]
	if !ok {
		return nil, false
	}
	spec := e.specs[name]

	var raw any = p.literal
	if p.binding != nil {
		source := e.EffectiveDataContext()
		if name == "DataContext" {
			source = e.inheritedDataContext()
		}
		v, ok := p.binding.Resolve(source)
		if !ok {
			return nil, false
		}
		raw = v
		if spec.kind == kindString {
			raw = p.binding.Format(v)
		}
	}

	v, err := convert(spec, raw)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (e *element) str(name string) string {
	if v, ok := e.value(name); ok {
		return v.(string)
	}
	return ""
}

// length returns NaN for unset or "Auto" lengths.
func (e *element) length(name string) float64 {
	if v, ok := e.value(name); ok {
		return v.(float64)
	}
	return math.NaN()
}

func (e *element) number(name string, def float64) float64 {
	if v, ok := e.value(name); ok {
		return v.(float64)
	}
	return def
}

func (e *element) thickness(name string) visual.Thickness {
	if v, ok := e.value(name); ok {
		return v.(visual.Thickness)
	}
	return visual.Thickness{}
}

func (e *element) brush(name string) (color.NRGBA, bool) {
	if v, ok := e.value(name); ok {
		c := v.(color.NRGBA)
		return c, c.A > 0
	}
	return color.NRGBA{}, false
}

func (e *element) enum(name, def string) string {
	if v, ok := e.value(name); ok {
		return v.(string)
	}
	return def
}

func (e *element) collapsed() bool {
	return e.enum("Visibility", "Visible") == "Collapsed"
}

func (e *element) visible() bool {
	return e.enum("Visibility", "Visible") == "Visible"
}

// === Layout ===

// invalidate marks this element, its descendants and its ancestors as
// needing measure and arrange.
func (e *element) invalidate() {
	e.invalidateSubtree()
	for p := e.parent; p != nil; p = p.Parent() {
		b := p.base()
		b.measureValid, b.arrangeValid, b.layoutUpdated = false, false, false
	}
}

func (e *element) invalidateSubtree() {
	e.measureValid, e.arrangeValid, e.layoutUpdated = false, false, false
	for _, c := range e.children {
		c.base().invalidateSubtree()
	}
}

// Measure implements visual.Layout.
func (e *element) Measure(available visual.Size) {
	e.lastAvailable = available
	e.measureValid = true
	e.arrangeValid = false
	e.layoutUpdated = false

	if e.collapsed() {
		e.desired = visual.Size{}
		return
	}

	margin := e.thickness("Margin")
	inner := margin.Shrink(available)
	w, h := e.length("Width"), e.length("Height")
	if !math.IsNaN(w) {
		inner.Width = w
	}
	if !math.IsNaN(h) {
		inner.Height = h
	}

	size := e.self.measureOverride(inner)
	if !math.IsNaN(w) {
		size.Width = w
	}
	if !math.IsNaN(h) {
		size.Height = h
	}

	d := margin.Inflate(size)
	e.desired = visual.Size{Width: math.Max(d.Width, 0), Height: math.Max(d.Height, 0)}
}

// Arrange implements visual.Layout.
func (e *element) Arrange(final visual.Rect) {
	e.lastFinal = final
	e.arrangeValid = true
	e.layoutUpdated = false

	if e.collapsed() {
		e.renderSize = visual.Size{}
		e.bounds = visual.Rect{X: final.X, Y: final.Y}
		return
	}

	margin := e.thickness("Margin")
	slot := final.Deflate(margin)
	content := margin.Shrink(e.desired)

	hAlign := e.enum("HorizontalAlignment", "Stretch")
	vAlign := e.enum("VerticalAlignment", "Stretch")
	size := visual.Size{
		Width:  arrangedLength(e.length("Width"), hAlign == "Stretch", slot.Width, content.Width),
		Height: arrangedLength(e.length("Height"), vAlign == "Stretch", slot.Height, content.Height),
	}

	size = e.self.arrangeOverride(size)
	e.renderSize = size
	e.bounds = visual.Rect{
		X:      slot.X + alignOffset(hAlign, "Left", "Right", slot.Width, size.Width),
		Y:      slot.Y + alignOffset(vAlign, "Top", "Bottom", slot.Height, size.Height),
		Width:  size.Width,
		Height: size.Height,
	}
}

func arrangedLength(explicit float64, stretch bool, slot, desired float64) float64 {
	switch {
	case !math.IsNaN(explicit):
		return explicit
	case stretch:
		return math.Max(slot, desired)
	default:
		return desired
	}
}

// alignOffset positions a length inside a slot. A stretched element that
// ended up smaller than its slot (fixed size) is centered.
func alignOffset(align, start, end string, slot, length float64) float64 {
	switch align {
	case start:
		return 0
	case end:
		return slot - length
	case "Center":
		return (slot - length) / 2
	default:
		if length < slot {
			return (slot - length) / 2
		}
		return 0
	}
}

// UpdateLayout implements visual.Layout. It re-runs invalidated passes with
// their last constraints and computes absolute bounds for the subtree.
func (e *element) UpdateLayout() {
	if !e.measureValid {
		e.Measure(e.lastAvailable)
	}
	if !e.arrangeValid {
		final := e.lastFinal
		if e.parent == nil && final == (visual.Rect{}) {
			final = visual.RectFromSize(e.desired)
		}
		e.Arrange(final)
	}

	if e.parent == nil {
		// The root is drawn at the origin of its surface.
		e.absolute = visual.RectFromSize(e.renderSize)
	} else {
		p := e.parent.base().absolute
		e.absolute = e.bounds.Offset(p.X, p.Y)
	}
	e.layoutUpdated = true

	for _, c := range e.children {
		c.UpdateLayout()
	}
}

// === Lifecycle ===

// OnUnloaded implements Element.
func (e *element) OnUnloaded(fn func()) {
	e.onUnload = append(e.onUnload, fn)
}

// IsUnloaded implements Element.
func (e *element) IsUnloaded() bool { return e.unloaded }

// RaiseUnloaded implements visual.Node. Handlers run parent first. Each
// element is unloaded at most once.
func (e *element) RaiseUnloaded() {
	if !e.unloaded {
		e.unloaded = true
		if r, ok := e.self.(interface{ release() }); ok {
			r.release()
		}
		for _, fn := range e.onUnload {
			fn()
		}
	}
	for _, c := range e.children {
		c.RaiseUnloaded()
	}
}

// Err implements Element.
func (e *element) Err() error {
	if e.err != nil {
		return e.err
	}
	for _, c := range e.children {
		if err := c.Err(); err != nil {
			return err
		}
	}
	return nil
}
