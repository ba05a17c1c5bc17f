package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

func TestPNGEncoder_RoundTrip(t *testing.T) {
	s := newTestSurface(20, 10)
	s.SetRGBA(3, 4, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := PNGEncoder().Encode(&buf, s); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("dimensions: got %dx%d, want 20x10", b.Dx(), b.Dy())
	}

	r, _, _, a := img.At(3, 4).RGBA()
	if r>>8 != 255 || a>>8 != 255 {
		t.Errorf("pixel (3,4): got r=%d a=%d, want opaque red", r>>8, a>>8)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("pixel (0,0) should stay transparent, alpha=%d", a>>8)
	}
}

func TestPNGEncoder_EmptyImageFails(t *testing.T) {
	var buf bytes.Buffer
	if err := PNGEncoder().Encode(&buf, newTestSurface(0, 0)); err == nil {
		t.Error("encoding a 0x0 surface should fail")
	}
}

func TestNewFormatEncoder(t *testing.T) {
	tests := []struct {
		name     string
		want     imaging.Format
		wantMime string
		wantErr  bool
	}{
		{"", imaging.PNG, "image/png", false},
		{"png", imaging.PNG, "image/png", false},
		{".PNG", imaging.PNG, "image/png", false},
		{"bmp", imaging.BMP, "image/bmp", false},
		{"tiff", imaging.TIFF, "image/tiff", false},
		{"tif", imaging.TIFF, "image/tiff", false},
		{"jpeg", 0, "", true},
		{"gif", 0, "", true},
		{"webp", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewFormatEncoder(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewFormatEncoder(%q) should fail", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFormatEncoder(%q) failed: %v", tt.name, err)
			}
			if enc.Format != tt.want {
				t.Errorf("Format: got %v, want %v", enc.Format, tt.want)
			}
			if enc.MimeType() != tt.wantMime {
				t.Errorf("MimeType: got %s, want %s", enc.MimeType(), tt.wantMime)
			}
		})
	}
}

func TestFormatEncoder_BMPDecodes(t *testing.T) {
	enc, err := NewFormatEncoder("bmp")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, createInMemoryImage(8, 6, color.RGBA{0, 0, 255, 255})); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	img, err := imaging.Decode(&buf)
	if err != nil {
		t.Fatalf("failed to decode BMP: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("dimensions: got %dx%d, want 8x6", b.Dx(), b.Dy())
	}
}

func TestThresholdEncoder(t *testing.T) {
	s := newTestSurface(4, 1)
	s.SetRGBA(0, 0, color.RGBA{A: 255})                         // black
	s.SetRGBA(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}) // white
	s.SetRGBA(2, 0, color.RGBA{R: 40, G: 40, B: 40, A: 255})    // dark gray
	// (3,0) stays transparent and is flattened onto white.

	var buf bytes.Buffer
	enc := ThresholdEncoder{Level: 128, Next: PNGEncoder()}
	if err := enc.Encode(&buf, s); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}

	want := []uint8{0, 255, 0, 255}
	for x, w := range want {
		g := color.GrayModel.Convert(img.At(x, 0)).(color.Gray)
		if g.Y != w {
			t.Errorf("pixel %d: got gray %d, want %d", x, g.Y, w)
		}
	}

	if enc.MimeType() != "image/png" {
		t.Errorf("MimeType: got %s", enc.MimeType())
	}
}

func TestThresholdEncoder_DefaultsToPNG(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := (ThresholdEncoder{Level: 100}).Encode(&buf, img); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("expected PNG output: %v", err)
	}
}
