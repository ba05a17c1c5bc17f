package markup

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Binding is a parsed {Binding ...} expression.
type Binding struct {
	Path          string
	StringFormat  string
	FallbackValue string
	hasFallback   bool
}

// ParseBinding parses a binding expression. ok is false when s is not a
// binding expression at all.
func ParseBinding(s string) (b *Binding, ok bool, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || strings.HasPrefix(s, "{}") {
		return nil, false, nil
	}
	if !strings.HasSuffix(s, "}") {
		return nil, true, fmt.Errorf("unterminated markup extension %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	kind, rest, _ := strings.Cut(body, " ")
	if kind != "Binding" {
		return nil, true, fmt.Errorf("unsupported markup extension %q", kind)
	}

	b = &Binding{}
	for i, part := range splitArgs(rest) {
		key, value, isPair := strings.Cut(part, "=")
		if !isPair {
			if i != 0 {
				return nil, true, fmt.Errorf("binding %q: positional path must come first", s)
			}
			b.Path = part
			continue
		}
		value = unquote(strings.TrimSpace(value))
		switch strings.TrimSpace(key) {
		case "Path":
			b.Path = value
		case "StringFormat":
			b.StringFormat = strings.TrimPrefix(value, "{}")
		case "FallbackValue":
			b.FallbackValue = value
			b.hasFallback = true
		default:
			return nil, true, fmt.Errorf("binding %q: unknown property %q", s, key)
		}
	}
	if _, err := parsePath(b.Path); err != nil {
		return nil, true, fmt.Errorf("binding %q: %w", s, err)
	}
	return b, true, nil
}

// splitArgs splits on commas that are not inside single quotes.
func splitArgs(s string) []string {
	var (
		parts  []string
		cur    strings.Builder
		quoted bool
	)
	for _, r := range s {
		switch {
		case r == '\'':
			quoted = !quoted
			cur.WriteRune(r)
		case r == ',' && !quoted:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if last := strings.TrimSpace(cur.String()); last != "" || len(parts) > 0 {
		parts = append(parts, last)
	}
	return parts
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// Resolve evaluates the binding path against data. ok is false when the
// path does not lead to a value; in that case the fallback, if any, is
// returned with ok set to true.
func (b *Binding) Resolve(data any) (any, bool) {
	v, ok := ResolvePath(data, b.Path)
	if !ok || v == nil {
		if b.hasFallback {
			return b.FallbackValue, true
		}
		return nil, false
	}
	return v, true
}

// Format renders a resolved value as text, applying StringFormat.
func (b *Binding) Format(v any) string {
	if b.StringFormat != "" {
		return fmt.Sprintf(b.StringFormat, v)
	}
	return fmt.Sprint(v)
}

type pathStep struct {
	name  string
	index int // -1 when the step is a name
}

func parsePath(path string) ([]pathStep, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "." {
		return nil, nil
	}
	var steps []pathStep
	for _, seg := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(seg, "[")
		if name == "" && rest == "" {
			return nil, fmt.Errorf("empty segment in path %q", path)
		}
		if name != "" {
			steps = append(steps, pathStep{name: name, index: -1})
		}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return nil, fmt.Errorf("unterminated index in path %q", path)
			}
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid index %q in path %q", idx, path)
			}
			steps = append(steps, pathStep{index: n})
			if tail == "" {
				break
			}
			if !strings.HasPrefix(tail, "[") {
				return nil, fmt.Errorf("unexpected %q after index in path %q", tail, path)
			}
			rest = tail[1:]
		}
	}
	return steps, nil
}

// ResolvePath walks path through data. An empty path returns data itself.
func ResolvePath(data any, path string) (any, bool) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, false
	}
	v := reflect.ValueOf(data)
	for _, step := range steps {
		v = indirect(v)
		if !v.IsValid() {
			return nil, false
		}
		if step.index >= 0 {
			switch v.Kind() {
			case reflect.Slice, reflect.Array, reflect.String:
				if step.index >= v.Len() {
					return nil, false
				}
				v = v.Index(step.index)
			default:
				return nil, false
			}
			continue
		}
		switch v.Kind() {
		case reflect.Map:
			if v.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			v = v.MapIndex(reflect.ValueOf(step.name).Convert(v.Type().Key()))
		case reflect.Struct:
			f, ok := structField(v, step.name)
			if !ok {
				return nil, false
			}
			v = f
		default:
			return nil, false
		}
	}
	v = indirect(v)
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func structField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	if f, ok := t.FieldByName(name); ok && f.IsExported() {
		fv, err := v.FieldByIndexErr(f.Index)
		if err != nil {
			return reflect.Value{}, false
		}
		return fv, true
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
