package markup

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":     "#000000",
	"white":     "#FFFFFF",
	"red":       "#FF0000",
	"green":     "#008000",
	"lime":      "#00FF00",
	"blue":      "#0000FF",
	"yellow":    "#FFFF00",
	"orange":    "#FFA500",
	"gray":      "#808080",
	"grey":      "#808080",
	"lightgray": "#D3D3D3",
	"darkgray":  "#A9A9A9",
	"silver":    "#C0C0C0",
	"navy":      "#000080",
	"maroon":    "#800000",
	"purple":    "#800080",
	"teal":      "#008080",
}

// ParseColor parses a brush value: "#RGB", "#RRGGBB", "#AARRGGBB", a
// named color, or "Transparent". The result has straight alpha.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return color.NRGBA{}, nil
	}
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[1:3], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = "#" + s[3:]
	}

	if len(s) != 4 && len(s) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
