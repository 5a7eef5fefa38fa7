// Package element implements the typed DOM shared by the schema
// descriptions and the document instances. A description tree is loaded
// once from the embedded schema files; instance elements are cloned from
// their matching description node and carry the document's values plus
// source-location metadata.
package element

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Cardinality values used in the Required field of a description.
const (
	RequiredZero       = "0"  // optional, at most one
	RequiredOne        = "1"  // exactly one
	RequiredOneOrMore  = "+"  // at least one
	Requiredany        = "*"  // any number
	RequiredDeprecated = "-1" // deprecated element
)

// Element is a node of either tree. Description nodes have no source
// location and their params hold schema defaults; instance nodes point
// back at the description they were cloned from.
type Element struct {
	name     string
	required string
	value    *Param
	attrs    []*Param
	children []*Element
	parent   *Element

	// desc is the description node this instance was created from; nil
	// on description nodes themselves and on passthrough elements.
	desc *Element

	// passThrough marks a namespaced unknown element kept verbatim.
	passThrough bool

	// copyData marks a description whose instances keep children
	// verbatim (plugin content).
	copyData bool

	// Source location, filled by the reader on instance nodes.
	filePath string
	xmlPath  string
	line     int
}

// New creates a bare element. Used by the schema loader and by tests;
// the reader goes through Instantiate instead.
func New(name string) *Element {
	return &Element{name: name}
}

// NewPassthrough creates an unknown-element node kept verbatim.
func NewPassthrough(name string) *Element {
	return &Element{name: name, passThrough: true, required: RequiredZero}
}

// Name returns the element name.
func (e *Element) Name() string { return e.name }

// Required returns the cardinality string from the description.
func (e *Element) Required() string { return e.required }

// SetRequired sets the cardinality; only the schema loader calls this.
func (e *Element) SetRequired(req string) { e.required = req }

// IsDeprecated reports whether the description marks this element
// deprecated.
func (e *Element) IsDeprecated() bool { return e.required == RequiredDeprecated }

// IsPassthrough reports whether this is an unknown-element node.
func (e *Element) IsPassthrough() bool { return e.passThrough }

// Description returns the description node this instance was cloned
// from, or nil.
func (e *Element) Description() *Element { return e.desc }

// Parent returns the enclosing element, or nil at the root.
func (e *Element) Parent() *Element { return e.parent }

// SetParent reparents the element without inserting it anywhere.
func (e *Element) SetParent(parent *Element) { e.parent = parent }

// SetSourceLocation records where in the input this element came from.
func (e *Element) SetSourceLocation(filePath, xmlPath string, line int) {
	e.filePath = filePath
	e.xmlPath = xmlPath
	e.line = line
}

// FilePath returns the source file, or "" when unknown.
func (e *Element) FilePath() string { return e.filePath }

// XMLPath returns the document path, e.g. /sdf/world/model.
func (e *Element) XMLPath() string { return e.xmlPath }

// Line returns the 1-based source line, or 0 when unknown.
func (e *Element) Line() int { return e.line }

// AddValue declares the typed text value; schema loader only.
func (e *Element) AddValue(t ValueType, def string, required bool) {
	e.value = NewParam(e.name, t, def, required)
}

// Value returns the typed text value param, or nil.
func (e *Element) Value() *Param { return e.value }

// AddAttribute declares an attribute; schema loader and passthrough
// handling only.
func (e *Element) AddAttribute(key string, t ValueType, def string, required bool) {
	e.attrs = append(e.attrs, NewParam(key, t, def, required))
}

// Attributes returns the ordered attribute list.
func (e *Element) Attributes() []*Param { return e.attrs }

// GetAttribute returns the attribute named key, or nil.
func (e *Element) GetAttribute(key string) *Param {
	for _, a := range e.attrs {
		if a.Key == key {
			return a
		}
	}
	return nil
}

// HasAttribute reports whether the attribute exists.
func (e *Element) HasAttribute(key string) bool {
	return e.GetAttribute(key) != nil
}

// AttributeSet reports whether key exists and was explicitly set.
func (e *Element) AttributeSet(key string) bool {
	a := e.GetAttribute(key)
	return a != nil && a.WasSet()
}

// Children returns the ordered child list.
func (e *Element) Children() []*Element { return e.children }

// HasElement reports whether a child with the name exists.
func (e *Element) HasElement(name string) bool {
	return e.FindElement(name) != nil
}

// FindElement returns the first child with the name without creating it.
func (e *Element) FindElement(name string) *Element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// FindAll returns every child with the name, in document order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// GetElement returns the first child with the name, creating it from the
// description with defaults when absent. This is the write path; readers
// use FindElement.
func (e *Element) GetElement(name string) (*Element, error) {
	if c := e.FindElement(name); c != nil {
		return c, nil
	}
	return e.AddElement(name)
}

// AddElement appends a new child cloned from the matching description
// child. Unknown names fail unless namespaced.
func (e *Element) AddElement(name string) (*Element, error) {
	descSrc := e.desc
	if descSrc == nil {
		descSrc = e
	}
	if childDesc := descSrc.FindElement(name); childDesc != nil {
		child := childDesc.Instantiate()
		child.parent = e
		e.children = append(e.children, child)
		return child, nil
	}
	if strings.Contains(name, ":") {
		child := NewPassthrough(name)
		child.parent = e
		e.children = append(e.children, child)
		return child, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("element %q is not a child of %q", name, e.name))
}

// InsertElement appends child, optionally reparenting it here.
func (e *Element) InsertElement(child *Element, setParent bool) {
	if setParent {
		child.parent = e
	}
	e.children = append(e.children, child)
}

// RemoveChild unlinks the child; no-op when absent.
func (e *Element) RemoveChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// ClearChildren drops all children.
func (e *Element) ClearChildren() { e.children = nil }

// Instantiate clones a description node into a fresh instance: same
// attributes and value defaults, no children, back-reference set.
func (e *Element) Instantiate() *Element {
	inst := &Element{
		name:     e.name,
		required: e.required,
		desc:     e,
	}
	if e.value != nil {
		inst.value = e.value.Clone()
	}
	for _, a := range e.attrs {
		inst.attrs = append(inst.attrs, a.Clone())
	}
	return inst
}

// Copy deep-clones the element and its subtree. The copy keeps the same
// description references but no parent.
func (e *Element) Copy() *Element {
	cp := &Element{
		name:        e.name,
		required:    e.required,
		desc:        e.desc,
		passThrough: e.passThrough,
		filePath:    e.filePath,
		xmlPath:     e.xmlPath,
		line:        e.line,
	}
	if e.value != nil {
		cp.value = e.value.Clone()
	}
	for _, a := range e.attrs {
		cp.attrs = append(cp.attrs, a.Clone())
	}
	for _, c := range e.children {
		cc := c.Copy()
		cc.parent = cp
		cp.children = append(cp.children, cc)
	}
	return cp
}
