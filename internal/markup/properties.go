package markup

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/template-render/internal/visual"
)

type valueKind int

const (
	kindString valueKind = iota
	kindLength           // float or "Auto" (NaN)
	kindNumber
	kindThickness
	kindBrush
	kindEnum
	kindAny
)

type attrSpec struct {
	kind   valueKind
	values []string // allowed values for kindEnum
}

var commonAttrs = map[string]attrSpec{
	"Name":                {kind: kindString},
	"Width":               {kind: kindLength},
	"Height":              {kind: kindLength},
	"Margin":              {kind: kindThickness},
	"HorizontalAlignment": {kind: kindEnum, values: []string{"Stretch", "Left", "Center", "Right"}},
	"VerticalAlignment":   {kind: kindEnum, values: []string{"Stretch", "Top", "Center", "Bottom"}},
	"Visibility":          {kind: kindEnum, values: []string{"Visible", "Hidden", "Collapsed"}},
	"DataContext":         {kind: kindAny},
}

// property is one attribute: a literal or a binding.
type property struct {
	literal string
	binding *Binding
}

func parseProperty(name, raw string, spec attrSpec) (property, error) {
	b, isBinding, err := ParseBinding(raw)
	if err != nil {
		return property{}, fmt.Errorf("attribute %s: %w", name, err)
	}
	if isBinding {
		if name == "Name" {
			return property{}, fmt.Errorf("attribute Name cannot be bound")
		}
		return property{binding: b}, nil
	}

	literal := strings.TrimPrefix(raw, "{}")
	if _, err := convert(spec, literal); err != nil {
		return property{}, fmt.Errorf("attribute %s: %w", name, err)
	}
	return property{literal: literal}, nil
}

// convert turns a literal string or a bound value into the Go type for an
// attribute kind: string, float64, visual.Thickness or color.NRGBA.
func convert(spec attrSpec, v any) (any, error) {
	switch spec.kind {
	case kindAny:
		return v, nil
	case kindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case kindLength:
		if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "auto") {
			return math.NaN(), nil
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		if f < 0 || math.IsInf(f, 0) {
			return nil, fmt.Errorf("length must be finite and non-negative, got %v", f)
		}
		return f, nil
	case kindNumber:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("number must be finite, got %v", f)
		}
		return f, nil
	case kindThickness:
		if t, ok := v.(visual.Thickness); ok {
			return t, nil
		}
		if f, err := toFloat(v); err == nil {
			return visual.Uniform(f), nil
		}
		return parseThickness(fmt.Sprint(v))
	case kindBrush:
		if c, ok := v.(color.Color); ok {
			return color.NRGBAModel.Convert(c).(color.NRGBA), nil
		}
		return ParseColor(fmt.Sprint(v))
	case kindEnum:
		s := strings.TrimSpace(fmt.Sprint(v))
		for _, allowed := range spec.values {
			if strings.EqualFold(s, allowed) {
				return allowed, nil
			}
		}
		return nil, fmt.Errorf("invalid value %q, want one of %s", s, strings.Join(spec.values, ", "))
	}
	return nil, fmt.Errorf("unknown attribute kind %d", spec.kind)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", n)
		}
		return f, nil
	case fmt.Stringer:
		return toFloat(n.String())
	}
	return 0, fmt.Errorf("cannot convert %T to a number", v)
}

// parseThickness accepts "u", "h,v" or "l,t,r,b", comma or space separated.
func parseThickness(s string) (visual.Thickness, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return visual.Thickness{}, fmt.Errorf("invalid thickness %q", s)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return visual.Uniform(vals[0]), nil
	case 2:
		return visual.Thickness{Left: vals[0], Top: vals[1], Right: vals[0], Bottom: vals[1]}, nil
	case 4:
		return visual.Thickness{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, nil
	}
	return visual.Thickness{}, fmt.Errorf("invalid thickness %q: want 1, 2 or 4 values", s)
}
