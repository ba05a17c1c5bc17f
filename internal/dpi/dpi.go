// Package dpi converts device-independent units to device pixels.
//
// A device-independent unit (DIU) is 1/96 of an inch. A length of n DIU
// covers n pixels on a 96 DPI surface and n*dpi/96 pixels on any other.
//
// Conversions truncate toward zero rather than round, so the pixel extent
// of a rendered template never exceeds its layout extent and the result is
// reproducible bit for bit across platforms.
package dpi

// Resolution presets.
const (
	// ScreenDefault is the baseline resolution DIU are defined against.
	ScreenDefault float64 = 96

	// ThermalPrinter is the common resolution of direct thermal label printers
	// (8 dots per millimetre).
	ThermalPrinter float64 = 203
)

// PixelDimensions is the integer pixel extent of a surface.
type PixelDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Scale returns the factor that maps DIU to pixels at the given resolution.
func Scale(dpi float64) float64 {
	return dpi / ScreenDefault
}

// ToPixels converts a DIU length to whole pixels at dpi, truncating any
// fractional pixel. Negative lengths clamp to zero.
//
//	ToPixels(300, ThermalPrinter) == 634 // 634.375 truncated
func ToPixels(size, dpi float64) int {
	px := int(size * Scale(dpi))
	if px < 0 {
		return 0
	}
	return px
}

// Dimensions converts a DIU width and height to pixel dimensions using
// independent horizontal and vertical resolutions.
func Dimensions(width, height, dpiX, dpiY float64) PixelDimensions {
	return PixelDimensions{
		Width:  ToPixels(width, dpiX),
		Height: ToPixels(height, dpiY),
	}
}

// Preset is a named resolution.
type Preset struct {
	Name string  `json:"name"`
	DPI  float64 `json:"dpi"`
}

// Presets lists the named resolutions in ascending order.
func Presets() []Preset {
	return []Preset{
		{Name: "screen", DPI: ScreenDefault},
		{Name: "thermal", DPI: ThermalPrinter},
		{Name: "print", DPI: 300},
	}
}

// Lookup returns the resolution of a named preset.
func Lookup(name string) (float64, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p.DPI, true
		}
	}
	return 0, false
}
