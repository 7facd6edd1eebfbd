package htmlnode

import (
	"errors"
	"strings"
	"testing"
)

func TestLeafRender(t *testing.T) {
	tests := []struct {
		name     string
		node     *Node
		expected string
	}{
		{
			name:     "raw text",
			node:     NewText("Just text"),
			expected: "Just text",
		},
		{
			name:     "bold",
			node:     NewLeaf("b", "bold"),
			expected: "<b>bold</b>",
		},
		{
			name:     "link",
			node:     NewLeaf("a", "click", Attr{Name: "href", Value: "https://example.com"}),
			expected: `<a href="https://example.com">click</a>`,
		},
		{
			name: "image keeps open and close form",
			node: NewLeaf("img", "",
				Attr{Name: "src", Value: "cat.png"},
				Attr{Name: "alt", Value: "a cat"}),
			expected: `<img src="cat.png" alt="a cat"></img>`,
		},
		{
			name:     "no escaping",
			node:     NewText("a < b & c"),
			expected: "a < b & c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := tt.node.Render()
			if actual != tt.expected {
				t.Errorf("Render() = %q, want %q", actual, tt.expected)
			}
		})
	}
}

func TestParentRender(t *testing.T) {
	p, err := NewParent("p", []*Node{
		NewText("Some "),
		NewLeaf("b", "bold"),
		NewText(" text."),
	})
	if err != nil {
		t.Fatalf("NewParent failed: %v", err)
	}

	div, err := NewParent("div", []*Node{p}, Attr{Name: "class", Value: "content"})
	if err != nil {
		t.Fatalf("NewParent failed: %v", err)
	}

	expected := `<div class="content"><p>Some <b>bold</b> text.</p></div>`
	if actual := div.Render(); actual != expected {
		t.Errorf("Render() = %q, want %q", actual, expected)
	}
}

func TestAttributeOrder(t *testing.T) {
	n := NewLeaf("a", "x",
		Attr{Name: "target", Value: "_blank"},
		Attr{Name: "href", Value: "/"},
		Attr{Name: "rel", Value: "noopener"})

	expected := `<a target="_blank" href="/" rel="noopener">x</a>`
	for i := 0; i < 10; i++ {
		if actual := n.Render(); actual != expected {
			t.Fatalf("Render() = %q, want %q", actual, expected)
		}
	}
}

func TestNewParentInvariant(t *testing.T) {
	if _, err := NewParent("", []*Node{NewText("x")}); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("Expected ErrInvalidNode for empty tag, got %v", err)
	}
	if _, err := NewParent("ul", nil); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("Expected ErrInvalidNode for no children, got %v", err)
	}
	if _, err := NewParent("ul", []*Node{nil}); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("Expected ErrInvalidNode for nil child, got %v", err)
	}
}

func TestParentOwnsChildren(t *testing.T) {
	children := []*Node{NewText("a"), NewText("b")}
	p, err := NewParent("p", children)
	if err != nil {
		t.Fatalf("NewParent failed: %v", err)
	}

	children[0] = NewText("changed")
	if actual := p.Render(); actual != "<p>ab</p>" {
		t.Errorf("Parent was affected by caller slice mutation: %q", actual)
	}

	got := p.Children()
	got[1] = NewText("changed")
	if actual := p.Render(); actual != "<p>ab</p>" {
		t.Errorf("Parent was affected by Children() mutation: %q", actual)
	}
}

func TestAccessors(t *testing.T) {
	n := NewLeaf("img", "", Attr{Name: "src", Value: "x.png"})

	if n.Kind() != Leaf {
		t.Error("Expected leaf kind")
	}
	if v, ok := n.Attr("src"); !ok || v != "x.png" {
		t.Errorf("Attr(src) = %q, %v", v, ok)
	}
	if _, ok := n.Attr("alt"); ok {
		t.Error("Expected alt to be absent")
	}
}

func TestWriteTo(t *testing.T) {
	var b strings.Builder
	n := NewLeaf("code", "x := 1")

	written, err := n.WriteTo(&b)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if b.String() != "<code>x := 1</code>" {
		t.Errorf("WriteTo wrote %q", b.String())
	}
	if written != int64(b.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d bytes", written, b.Len())
	}
}
