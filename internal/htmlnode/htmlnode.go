package htmlnode

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidNode is returned when a node would violate the leaf/parent invariant
var ErrInvalidNode = errors.New("invalid html node")

// Kind discriminates leaves from parents
type Kind int

const (
	// Leaf nodes carry a literal value and no children
	Leaf Kind = iota
	// Parent nodes carry an ordered list of children and no value
	Parent
)

// Attr is a single HTML attribute. Attributes are kept in a slice so
// rendering follows insertion order.
type Attr struct {
	Name  string
	Value string
}

// Node represents an element of the generated HTML tree
type Node struct {
	kind     Kind
	tag      string
	value    string
	children []*Node
	attrs    []Attr
}

// NewText creates a tag-less leaf that renders its value verbatim
func NewText(value string) *Node {
	return &Node{kind: Leaf, value: value}
}

// NewLeaf creates a leaf element, e.g. <b>value</b>
func NewLeaf(tag, value string, attrs ...Attr) *Node {
	return &Node{
		kind:  Leaf,
		tag:   tag,
		value: value,
		attrs: copyAttrs(attrs),
	}
}

// NewParent creates an element whose content is entirely its children
func NewParent(tag string, children []*Node, attrs ...Attr) (*Node, error) {
	if tag == "" {
		return nil, fmt.Errorf("%w: parent node requires a tag", ErrInvalidNode)
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: <%s> has no children", ErrInvalidNode, tag)
	}
	for i, c := range children {
		if c == nil {
			return nil, fmt.Errorf("%w: <%s> child %d is nil", ErrInvalidNode, tag, i)
		}
	}

	owned := make([]*Node, len(children))
	copy(owned, children)

	return &Node{
		kind:     Parent,
		tag:      tag,
		children: owned,
		attrs:    copyAttrs(attrs),
	}, nil
}

func copyAttrs(attrs []Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	copy(out, attrs)
	return out
}

// Kind reports whether n is a leaf or a parent
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element name, empty for raw text
func (n *Node) Tag() string { return n.tag }

// Value returns the literal content of a leaf
func (n *Node) Value() string { return n.value }

// Children returns a copy of the node's children
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Attrs returns a copy of the node's attributes in insertion order
func (n *Node) Attrs() []Attr {
	return copyAttrs(n.attrs)
}

// Attr looks up an attribute by name
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Render returns the HTML for n and its subtree.
// Text and attribute values are written as-is, without escaping.
func (n *Node) Render() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

// WriteTo implements io.WriterTo
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	written, err := io.WriteString(w, n.Render())
	return int64(written), err
}

// String implements fmt.Stringer for debugging output
func (n *Node) String() string {
	switch n.kind {
	case Parent:
		return fmt.Sprintf("Parent(%s, %d children, %v)", n.tag, len(n.children), n.attrs)
	default:
		return fmt.Sprintf("Leaf(%s, %q, %v)", n.tag, n.value, n.attrs)
	}
}

func (n *Node) render(b *strings.Builder) {
	if n.kind == Leaf && n.tag == "" {
		b.WriteString(n.value)
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if n.kind == Parent {
		for _, c := range n.children {
			c.render(b)
		}
	} else {
		b.WriteString(n.value)
	}

	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}
