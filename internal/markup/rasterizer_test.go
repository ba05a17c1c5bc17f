package markup

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/ironsheep/template-render/internal/dpi"
	"github.com/ironsheep/template-render/internal/imaging"
	"github.com/ironsheep/template-render/internal/visual"
)

// rasterize lays root out and draws it at the given scale onto a surface
// of the scaled render size.
func rasterize(t *testing.T, root Element, scale float64) *image.RGBA {
	t.Helper()
	autoSize(root)
	size := root.RenderSize()
	dst := image.NewRGBA(image.Rect(0, 0, int(size.Width*scale), int(size.Height*scale)))
	if err := (Rasterizer{}).Rasterize(root, dst, scale, scale); err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	return dst
}

func assertPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	if got := img.RGBAAt(x, y); got != want {
		t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
	}
}

var (
	opaqueRed   = color.RGBA{R: 255, A: 255}
	opaqueBlue  = color.RGBA{B: 255, A: 255}
	opaqueWhite = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestRasterize_Shapes(t *testing.T) {
	root := mustParse(t, `
<StackPanel Background="White">
  <Rectangle Width="10" Height="10" Fill="Red" HorizontalAlignment="Left"/>
  <Rectangle Width="10" Height="10" Fill="Blue" HorizontalAlignment="Right"/>
  <Rectangle Width="20" Height="5"/>
</StackPanel>`)
	img := rasterize(t, root, 2)

	if got := img.Bounds().Size(); got != (image.Point{X: 40, Y: 50}) {
		t.Fatalf("size: got %v, want 40x50", got)
	}
	assertPixel(t, img, 10, 10, opaqueRed)
	assertPixel(t, img, 30, 10, opaqueWhite)
	assertPixel(t, img, 30, 30, opaqueBlue)
	assertPixel(t, img, 10, 30, opaqueWhite)
	// The unfilled rectangle leaves the panel background.
	assertPixel(t, img, 20, 45, opaqueWhite)
}

func TestRasterize_BorderFrame(t *testing.T) {
	root := mustParse(t, `
<Border Background="White" BorderBrush="Blue" BorderThickness="4,2">
  <Rectangle Width="12" Height="12"/>
</Border>`)
	img := rasterize(t, root, 1)

	if got := img.Bounds().Size(); got != (image.Point{X: 20, Y: 16}) {
		t.Fatalf("size: got %v, want 20x16", got)
	}
	assertPixel(t, img, 1, 8, opaqueBlue)
	assertPixel(t, img, 18, 8, opaqueBlue)
	assertPixel(t, img, 10, 0, opaqueBlue)
	assertPixel(t, img, 10, 15, opaqueBlue)
	assertPixel(t, img, 10, 8, opaqueWhite)
}

func TestRasterize_HiddenNotDrawn(t *testing.T) {
	root := mustParse(t, `
<StackPanel Background="White">
  <Rectangle Width="10" Height="10" Fill="Red" Visibility="Hidden"/>
</StackPanel>`)
	img := rasterize(t, root, 1)
	assertPixel(t, img, 5, 5, opaqueWhite)
}

func TestRasterize_Text(t *testing.T) {
	root := mustParse(t, `
<Border Background="White">
  <TextBlock Text="{Binding}" FontSize="24" FontWeight="Bold"/>
</Border>`)
	root.SetDataContext("Label")
	img := rasterize(t, root, 2)

	dark := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.R < 128 && c.A == 255 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no glyph pixels drawn")
	}
}

func TestRasterize_Image(t *testing.T) {
	uri := solidPNGDataURI(t, 2, 2, color.NRGBA{R: 255, A: 255})
	root := mustParse(t, `<Image Source="`+uri+`" Width="4" Height="4" Stretch="Fill"/>`)
	img := rasterize(t, root, 3)

	if got := img.Bounds().Size(); got != (image.Point{X: 12, Y: 12}) {
		t.Fatalf("size: got %v, want 12x12", got)
	}
	assertPixel(t, img, 6, 6, opaqueRed)
}

func TestRasterize_StaleLayout(t *testing.T) {
	root := mustParse(t, `<Rectangle Width="1" Height="1"/>`)
	root.Measure(visual.Infinite)

	err := (Rasterizer{}).Rasterize(root, image.NewRGBA(image.Rect(0, 0, 1, 1)), 1, 1)
	if !errors.Is(err, ErrLayoutNotUpdated) {
		t.Errorf("got %v, want ErrLayoutNotUpdated", err)
	}
}

func TestRasterize_ImageErrorSurfaces(t *testing.T) {
	root := mustParse(t, `<Image Source="missing.png" Width="4" Height="4"/>`)
	autoSize(root)

	if err := (Rasterizer{}).Rasterize(root, image.NewRGBA(image.Rect(0, 0, 4, 4)), 1, 1); err == nil {
		t.Error("expected the image load error")
	}
}

type foreignNode struct{ visual.Node }

func TestRasterize_ForeignNode(t *testing.T) {
	err := (Rasterizer{}).Rasterize(foreignNode{}, image.NewRGBA(image.Rect(0, 0, 1, 1)), 1, 1)
	if err == nil {
		t.Error("expected an error for a node from another engine")
	}
}

func TestRasterize_InPlaceOnSurface(t *testing.T) {
	root := mustParse(t, `
<StackPanel Orientation="Horizontal">
  <Rectangle Width="2" Height="2" Fill="Red"/>
  <Rectangle Width="2" Height="2" Fill="Blue"/>
</StackPanel>`)
	autoSize(root)
	dst := imaging.NewSurface(dpi.PixelDimensions{Width: 8, Height: 4}, 192, 192)

	if err := (Rasterizer{}).Rasterize(root, dst, 2, 2); err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	if got := dst.RGBAAt(1, 1); got != opaqueRed {
		t.Errorf("left: got %v, want red", got)
	}
	if got := dst.RGBAAt(6, 2); got != opaqueBlue {
		t.Errorf("right: got %v, want blue", got)
	}
	if p := dst.Pix[dst.PixOffset(1, 1):]; p[0] != 0 || p[2] != 255 {
		t.Errorf("bytes at (1,1): got %v, want BGRA order", p[:4])
	}
}

func TestRasterize_ImageLargerThanCanvas(t *testing.T) {
	uri := solidPNGDataURI(t, 2, 2, color.NRGBA{R: 255, A: 255})
	root := mustParse(t, `
<Border Width="4" Height="4">
  <Image Source="`+uri+`" Width="100000" Height="100000" Stretch="Fill"/>
</Border>`)
	img := rasterize(t, root, 1)

	assertPixel(t, img, 1, 1, opaqueRed)
	assertPixel(t, img, 3, 3, opaqueRed)
}

func TestRasterize_FontTooLarge(t *testing.T) {
	root := mustParse(t, `<TextBlock Text="A" FontSize="5000" Width="10" Height="10"/>`)
	autoSize(root)

	err := (Rasterizer{}).Rasterize(root, image.NewRGBA(image.Rect(0, 0, 10, 10)), 1, 1)
	if err == nil || !strings.Contains(err.Error(), "pixel limit") {
		t.Errorf("got %v, want a font size error", err)
	}
}
