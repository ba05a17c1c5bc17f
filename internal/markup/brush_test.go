package markup

import (
	"image/color"
	"testing"

	"github.com/ironsheep/template-render/internal/visual"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#F00", want: color.NRGBA{R: 255, A: 255}},
		{in: "#00FF80", want: color.NRGBA{G: 255, B: 128, A: 255}},
		{in: "#8000FF00", want: color.NRGBA{G: 255, A: 128}},
		{in: "White", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: "transparent", want: color.NRGBA{}},
		{in: " navy ", want: color.NRGBA{B: 128, A: 255}},
		{in: "#12345", wantErr: true},
		{in: "#GGGGGG", wantErr: true},
		{in: "chartreuse-ish", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		spec    attrSpec
		in      any
		want    any
		wantErr bool
	}{
		{name: "length literal", spec: attrSpec{kind: kindLength}, in: "12.5", want: 12.5},
		{name: "length bound int", spec: attrSpec{kind: kindLength}, in: 40, want: 40.0},
		{name: "negative length", spec: attrSpec{kind: kindLength}, in: "-1", wantErr: true},
		{name: "number", spec: attrSpec{kind: kindNumber}, in: "-3", want: -3.0},
		{name: "thickness uniform", spec: attrSpec{kind: kindThickness}, in: "4", want: visual.Uniform(4)},
		{name: "thickness pair", spec: attrSpec{kind: kindThickness}, in: "4,2", want: visual.Thickness{Left: 4, Top: 2, Right: 4, Bottom: 2}},
		{name: "thickness four", spec: attrSpec{kind: kindThickness}, in: "1 2 3 4", want: visual.Thickness{Left: 1, Top: 2, Right: 3, Bottom: 4}},
		{name: "thickness three", spec: attrSpec{kind: kindThickness}, in: "1,2,3", wantErr: true},
		{name: "brush from color", spec: attrSpec{kind: kindBrush}, in: color.White, want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{name: "enum case folded", spec: attrSpec{kind: kindEnum, values: []string{"Left", "Right"}}, in: "right", want: "Right"},
		{name: "enum invalid", spec: attrSpec{kind: kindEnum, values: []string{"Left", "Right"}}, in: "Up", wantErr: true},
		{name: "string from number", spec: attrSpec{kind: kindString}, in: 42, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert(tt.spec, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
