package markup

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/template-render/internal/imaging"
	"github.com/ironsheep/template-render/internal/visual"
)

var imageAttrs = withCommon(map[string]attrSpec{
	"Source":  {kind: kindString},
	"Stretch": {kind: kindEnum, values: []string{"None", "Fill", "Uniform"}},
})

// Image draws a bitmap loaded from a file path or a data URI. One bitmap
// pixel is one device-independent pixel of natural size.
type Image struct {
	element

	baseDir string
	source  string
	bitmap  image.Image
}

// NewImage returns an Image whose relative sources resolve against baseDir.
func NewImage(baseDir string) *Image {
	img := &Image{baseDir: baseDir}
	img.init(img, "Image", imageAttrs)
	return img
}

// Bitmap returns the decoded source, or nil if it has not been loaded.
func (img *Image) Bitmap() image.Image { return img.bitmap }

func (img *Image) load() {
	src := img.str("Source")
	if src == img.source && (img.bitmap != nil || img.err != nil) {
		return
	}
	img.source, img.bitmap, img.err = src, nil, nil
	if src == "" {
		return
	}
	bm, err := imaging.LoadSource(src, img.baseDir)
	if err != nil {
		img.err = fmt.Errorf("image source: %w", err)
		return
	}
	img.bitmap = bm
}

func (img *Image) naturalSize() visual.Size {
	if img.bitmap == nil {
		return visual.Size{}
	}
	b := img.bitmap.Bounds()
	return visual.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

func (img *Image) stretch() string { return img.enum("Stretch", "Uniform") }

func (img *Image) measureOverride(available visual.Size) visual.Size {
	img.load()
	return fitSize(img.naturalSize(), available, img.stretch())
}

func (img *Image) render(dc *drawContext, bounds visual.Rect) error {
	if img.bitmap == nil {
		return nil
	}
	size := fitSize(img.naturalSize(), bounds.Size(), img.stretch())
	dst := visual.Rect{
		X:      bounds.X + (bounds.Width-size.Width)/2,
		Y:      bounds.Y + (bounds.Height-size.Height)/2,
		Width:  size.Width,
		Height: size.Height,
	}
	dc.drawImage(img.bitmap, dst, bounds)
	return nil
}

func (img *Image) release() {
	img.bitmap = nil
}

// fitSize scales a natural size into the available space. Infinite
// available dimensions leave the natural size in place.
func fitSize(natural, available visual.Size, stretch string) visual.Size {
	if natural.IsEmpty() {
		return visual.Size{}
	}
	finiteW, finiteH := !math.IsInf(available.Width, 1), !math.IsInf(available.Height, 1)

	switch stretch {
	case "Fill":
		s := natural
		if finiteW {
			s.Width = available.Width
		}
		if finiteH {
			s.Height = available.Height
		}
		return s
	case "Uniform":
		scale := math.Inf(1)
		if finiteW {
			scale = available.Width / natural.Width
		}
		if finiteH {
			scale = math.Min(scale, available.Height/natural.Height)
		}
		if math.IsInf(scale, 1) {
			return natural
		}
		return visual.Size{Width: natural.Width * scale, Height: natural.Height * scale}
	}
	return natural
}
