package textnode

import (
	"fmt"

	"github.com/gerunddev/mdsite/internal/htmlnode"
)

// Variant is the inline formatting of a TextNode
type Variant int

const (
	Plain Variant = iota
	Bold
	Italic
	Code
	Link
	Image
)

func (v Variant) String() string {
	switch v {
	case Plain:
		return "plain"
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Code:
		return "code"
	case Link:
		return "link"
	case Image:
		return "image"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// TextNode is a typed run of inline content.
// URL is set only for links and images.
type TextNode struct {
	Text    string
	Variant Variant
	URL     string
}

// New creates a text node without a URL
func New(text string, variant Variant) TextNode {
	return TextNode{Text: text, Variant: variant}
}

// NewLink creates a link node
func NewLink(text, url string) TextNode {
	return TextNode{Text: text, Variant: Link, URL: url}
}

// NewImage creates an image node; text is the alt text
func NewImage(alt, url string) TextNode {
	return TextNode{Text: alt, Variant: Image, URL: url}
}

func (n TextNode) String() string {
	if n.URL != "" {
		return fmt.Sprintf("TextNode(%q, %s, %q)", n.Text, n.Variant, n.URL)
	}
	return fmt.Sprintf("TextNode(%q, %s)", n.Text, n.Variant)
}

// HTMLNode converts the text node into its HTML leaf
func (n TextNode) HTMLNode() (*htmlnode.Node, error) {
	switch n.Variant {
	case Plain:
		return htmlnode.NewText(n.Text), nil
	case Bold:
		return htmlnode.NewLeaf("b", n.Text), nil
	case Italic:
		return htmlnode.NewLeaf("i", n.Text), nil
	case Code:
		return htmlnode.NewLeaf("code", n.Text), nil
	case Link:
		if n.URL == "" {
			return nil, fmt.Errorf("link %q has no url", n.Text)
		}
		return htmlnode.NewLeaf("a", n.Text, htmlnode.Attr{Name: "href", Value: n.URL}), nil
	case Image:
		if n.URL == "" {
			return nil, fmt.Errorf("image %q has no url", n.Text)
		}
		return htmlnode.NewLeaf("img", "",
			htmlnode.Attr{Name: "src", Value: n.URL},
			htmlnode.Attr{Name: "alt", Value: n.Text}), nil
	default:
		return nil, fmt.Errorf("unsupported text node variant: %s", n.Variant)
	}
}

// ToHTMLNodes converts a sequence of text nodes, preserving order
func ToHTMLNodes(nodes []TextNode) ([]*htmlnode.Node, error) {
	out := make([]*htmlnode.Node, 0, len(nodes))
	for _, n := range nodes {
		h, err := n.HTMLNode()
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
