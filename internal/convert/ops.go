package convert

import (
	"fmt"
	"strings"

	"sdformat/internal/xmltree"
)

// Op is one declarative migration operation. Exactly the fields needed
// by its kind are set; Apply dispatches on Kind.
type Op struct {
	Kind string `yaml:"op"`

	// Path selects the elements the op works on, in the "//a/b" suffix
	// form: any element named b whose parent chain ends in a.
	Path string `yaml:"path"`

	// From / To name attributes for rename_attribute, the new element
	// name for rename_element, and source/destination child chains for
	// move and copy_value.
	From string `yaml:"from"`
	To   string `yaml:"to"`

	// Element / Value describe the child inserted by insert_default.
	Element string `yaml:"element"`
	Value   string `yaml:"value"`

	// Attribute / Map drive remap_enum.
	Attribute string            `yaml:"attribute"`
	Map       map[string]string `yaml:"map"`
}

// Apply runs the op against every match in the tree.
func (o Op) Apply(root *xmltree.Node) error {
	switch o.Kind {
	case "rename_element":
		for _, n := range match(root, o.Path) {
			n.Name = o.To
		}
	case "rename_attribute":
		for _, n := range match(root, o.Path) {
			if v, ok := n.Attr(o.From); ok {
				n.RemoveAttr(o.From)
				n.SetAttr(o.To, v)
			}
		}
	case "move":
		// Reparent each match under a (possibly new) sibling chain
		// named by To, e.g. moving //world/gravity under "physics".
		for _, n := range match(root, o.Path) {
			parent := n.Parent
			if parent == nil {
				continue
			}
			target := childChain(parent, strings.Split(o.To, "/"))
			parent.RemoveChild(n)
			target.Append(n)
		}
	case "insert_default":
		for _, n := range match(root, o.Path) {
			if n.Child(o.Element) != nil {
				continue
			}
			child := &xmltree.Node{Name: o.Element, Text: o.Value}
			n.Append(child)
		}
	case "delete":
		for _, n := range match(root, o.Path) {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
		}
	case "copy_value":
		for _, n := range match(root, o.Path) {
			parent := n.Parent
			if parent == nil {
				continue
			}
			target := childChain(parent, strings.Split(o.To, "/"))
			target.Text = n.Text
		}
	case "remap_enum":
		for _, n := range match(root, o.Path) {
			if v, ok := n.Attr(o.Attribute); ok {
				if mapped, hit := o.Map[v]; hit {
					n.SetAttr(o.Attribute, mapped)
				}
			}
		}
	default:
		return fmt.Errorf("unknown migration op %q", o.Kind)
	}
	return nil
}

// match returns every element whose name-path suffix equals the "//a/b"
// pattern.
func match(root *xmltree.Node, pattern string) []*xmltree.Node {
	segs := strings.Split(strings.TrimPrefix(pattern, "//"), "/")
	var out []*xmltree.Node
	root.Walk(func(n *xmltree.Node) {
		if suffixMatches(n, segs) {
			out = append(out, n)
		}
	})
	return out
}

func suffixMatches(n *xmltree.Node, segs []string) bool {
	cur := n
	for i := len(segs) - 1; i >= 0; i-- {
		if cur == nil || cur.Name != segs[i] {
			return false
		}
		cur = cur.Parent
	}
	return true
}

// childChain walks (creating as needed) the named child chain under
// parent and returns the final node.
func childChain(parent *xmltree.Node, names []string) *xmltree.Node {
	cur := parent
	for _, name := range names {
		next := cur.Child(name)
		if next == nil {
			next = &xmltree.Node{Name: name}
			cur.Append(next)
		}
		cur = next
	}
	return cur
}
