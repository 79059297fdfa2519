package theme

import (
	"html"
	"html/template"
	"strings"
)

// Attributes on the document root keyed by the style layer.
const (
	AttrColorMode  = "data-color-mode"
	AttrDarkTheme  = "data-dark-theme"
	AttrLightTheme = "data-light-theme"
)

// Root is a handle to the document root element.
type Root interface {
	SetAttribute(name, value string)
}

// Sync copies next.CSS onto root. It writes on mount (prev == nil) and
// whenever the state changed; a nil root or nil next is a no-op.
func Sync(prev, next *State, root Root) {
	if root == nil || next == nil {
		return
	}
	if prev != nil && *prev == *next {
		return
	}
	root.SetAttribute(AttrColorMode, next.CSS.ColorMode)
	root.SetAttribute(AttrDarkTheme, next.CSS.DarkTheme)
	root.SetAttribute(AttrLightTheme, next.CSS.LightTheme)
}

// Synchronizer remembers the last state applied to a root.
type Synchronizer struct {
	root Root
	last *State
}

// NewSynchronizer returns a Synchronizer for root. root may be nil.
func NewSynchronizer(root Root) *Synchronizer {
	return &Synchronizer{root: root}
}

// Apply syncs next onto the root and reports whether attributes were written.
func (s *Synchronizer) Apply(next State) bool {
	if s.root == nil {
		return false
	}
	changed := s.last == nil || *s.last != next
	Sync(s.last, &next, s.root)
	s.last = &next
	return changed
}

// Attr is a single name/value pair on an Element.
type Attr struct {
	Name  string
	Value string
}

// Element is an attribute set for the server-rendered <html> tag. Attribute
// order is stable: first set, first rendered.
type Element struct {
	attrs []Attr
}

// NewElement returns an empty Element.
func NewElement() *Element {
	return &Element{}
}

// SetAttribute implements Root.
func (e *Element) SetAttribute(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// Attribute returns the value of name and whether it is set.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attributes returns a copy of the attributes in render order.
func (e *Element) Attributes() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// Map returns the attributes keyed by name.
func (e *Element) Map() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for _, a := range e.attrs {
		out[a.Name] = a.Value
	}
	return out
}

// HTMLAttrs renders the attributes for inclusion in a start tag. Names are
// set by this package's callers; values are escaped.
func (e *Element) HTMLAttrs() template.HTMLAttr {
	var b strings.Builder
	for i, a := range e.attrs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
	return template.HTMLAttr(b.String())
}
