package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage creates a simple test image file and returns its path.
func createTestImage(t *testing.T, dir string, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "test-image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func pngDataURI(t *testing.T, width, height int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestLoadSource_File(t *testing.T) {
	dir := t.TempDir()
	path := createTestImage(t, dir, 40, 30, color.RGBA{255, 0, 0, 255})

	img, err := LoadSource(path, "")
	if err != nil {
		t.Fatalf("LoadSource failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestLoadSource_RelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	createTestImage(t, dir, 5, 5, color.Black)

	if _, err := LoadSource("test-image.png", dir); err != nil {
		t.Fatalf("LoadSource with base dir failed: %v", err)
	}
}

func TestLoadSource_DataURI(t *testing.T) {
	img, err := LoadSource(pngDataURI(t, 12, 7), "")
	if err != nil {
		t.Fatalf("LoadSource failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
		t.Errorf("dimensions: got %dx%d, want 12x7", b.Dx(), b.Dy())
	}
}

func TestLoadSource_Errors(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"empty", "  "},
		{"missing file", "/nonexistent/path/to/image.png"},
		{"data uri without comma", "data:image/png;base64"},
		{"data uri not base64", "data:image/png,abc"},
		{"data uri bad payload", "data:image/png;base64,!!!"},
		{"data uri not an image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSource(tt.ref, ""); err == nil {
				t.Errorf("LoadSource(%q) should fail", tt.ref)
			}
		})
	}
}

func TestGetDimensions(t *testing.T) {
	path := createTestImage(t, t.TempDir(), 300, 200, color.RGBA{100, 100, 100, 255})

	dims, err := GetDimensions(path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 300 || dims.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 300x200", dims.Width, dims.Height)
	}
	if dims.Format != "png" {
		t.Errorf("Format: got %s, want png", dims.Format)
	}
	if dims.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestGetDimensions_NonExistent(t *testing.T) {
	if _, err := GetDimensions("/nonexistent/image.png"); err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}
