package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parser reads XML templates. Namespaces are ignored: <StackPanel> and
// <ui:StackPanel> are the same element, and namespaced attributes other
// than Name and Key are treated as design-time metadata and skipped.
type Parser struct {
	// BaseDir resolves relative Image sources. Empty means the process
	// working directory.
	BaseDir string
}

// Parse reads a single template document. The result is an Element, or a
// *ResourceDictionary when the document root is <ResourceDictionary>.
func (p Parser) Parse(r io.Reader) (any, error) {
	dec := xml.NewDecoder(r)
	ps := &parseState{parser: p, dec: dec}
	root, err := ps.document()
	if err != nil {
		line, _ := dec.InputPos()
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	return root, nil
}

type parseState struct {
	parser Parser
	dec    *xml.Decoder
}

// document returns the first element and checks nothing but whitespace,
// comments and processing instructions follow it.
func (ps *parseState) document() (any, error) {
	var root any
	for {
		tok, err := ps.dec.Token()
		if errors.Is(err, io.EOF) {
			if root == nil {
				return nil, errors.New("document has no root element")
			}
			return root, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, errors.New("document has more than one root element")
			}
			if t.Name.Local == "ResourceDictionary" {
				if root, err = ps.resourceDictionary(t); err != nil {
					return nil, err
				}
				continue
			}
			if root, err = ps.element(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return nil, errors.New("text outside the root element")
			}
		}
	}
}

func (ps *parseState) newElement(name string) (Element, error) {
	switch name {
	case "StackPanel":
		return NewStackPanel(), nil
	case "Border":
		return NewBorder(), nil
	case "TextBlock":
		return NewTextBlock(), nil
	case "Rectangle":
		return NewRectangle(), nil
	case "Ellipse":
		return NewEllipse(), nil
	case "Image":
		return NewImage(ps.parser.BaseDir), nil
	case "ResourceDictionary":
		return nil, errors.New("ResourceDictionary is only allowed as the document root")
	}
	if strings.Contains(name, ".") {
		return nil, fmt.Errorf("property element <%s> is not supported, use an attribute", name)
	}
	return nil, fmt.Errorf("unknown element <%s>", name)
}

// element parses start and everything up to its matching end element.
func (ps *parseState) element(start xml.StartElement) (Element, error) {
	el, err := ps.newElement(start.Name.Local)
	if err != nil {
		return nil, err
	}
	if err := setAttributes(el.base(), start.Attr); err != nil {
		return nil, fmt.Errorf("<%s>: %w", el.Kind(), err)
	}

	_, isText := el.(*TextBlock)
	var text strings.Builder
	for {
		tok, err := ps.dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if isText && t.Name.Local == lineBreakTag {
				if err := ps.dec.Skip(); err != nil {
					return nil, err
				}
				text.WriteRune(lineBreakMarker)
				continue
			}
			child, err := ps.element(t)
			if err != nil {
				return nil, err
			}
			if err := checkChild(el, child); err != nil {
				return nil, err
			}
			el.base().addChild(child)
		case xml.CharData:
			if isText {
				text.Write(t)
				continue
			}
			if strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("<%s> cannot contain text", el.Kind())
			}
		case xml.EndElement:
			if isText {
				if err := setInnerText(el.base(), text.String()); err != nil {
					return nil, err
				}
			}
			return el, nil
		}
	}
}

func checkChild(parent, child Element) error {
	switch p := parent.(type) {
	case *StackPanel:
		return nil
	case *Border:
		if p.Child() != nil {
			return errors.New("<Border> can only contain one child")
		}
		return nil
	}
	return fmt.Errorf("<%s> cannot contain <%s>", parent.Kind(), child.Kind())
}

func setAttributes(e *element, attrs []xml.Attr) error {
	for _, a := range attrs {
		name := a.Name.Local
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && name == "xmlns") {
			continue
		}
		if a.Name.Space != "" && name != "Name" {
			continue
		}
		spec, ok := e.specs[name]
		if !ok {
			return fmt.Errorf("unknown attribute %s", name)
		}
		if _, dup := e.props[name]; dup {
			return fmt.Errorf("attribute %s set more than once", name)
		}
		prop, err := parseProperty(name, a.Value, spec)
		if err != nil {
			return err
		}
		e.props[name] = prop
	}
	return nil
}

// lineBreakMarker stands in for <LineBreak/> while content is collected.
// NUL cannot occur in XML character data.
const lineBreakMarker = '\x00'

// setInnerText applies a TextBlock's content. Source whitespace, newlines
// included, collapses to single spaces and each line is trimmed.
func setInnerText(e *element, raw string) error {
	lines := strings.Split(raw, string(lineBreakMarker))
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text := strings.Join(lines, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if _, ok := e.props["Text"]; ok {
		return errors.New("<TextBlock> has both a Text attribute and content")
	}
	prop, err := parseProperty("Text", text, e.specs["Text"])
	if err != nil {
		return err
	}
	e.props["Text"] = prop
	return nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// resourceDictionary parses <ResourceDictionary> whose children are keyed
// string resources: <String Key="title">Hello</String>.
func (ps *parseState) resourceDictionary(start xml.StartElement) (*ResourceDictionary, error) {
	d := NewResourceDictionary()
	for {
		tok, err := ps.dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "String" {
				return nil, fmt.Errorf("<ResourceDictionary> cannot contain <%s>", t.Name.Local)
			}
			var key string
			for _, a := range t.Attr {
				if a.Name.Local == "Key" {
					key = a.Value
				}
			}
			if key == "" {
				return nil, errors.New("resource <String> requires a Key")
			}
			var value string
			if err := ps.dec.DecodeElement(&value, &t); err != nil {
				return nil, err
			}
			if _, dup := d.entries[key]; dup {
				return nil, fmt.Errorf("duplicate resource key %q", key)
			}
			d.entries[key] = value
		case xml.CharData:
			if strings.TrimSpace(string(t)) != "" {
				return nil, errors.New("<ResourceDictionary> cannot contain text")
			}
		case xml.EndElement:
			return d, nil
		}
	}
}
