package blocks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gerunddev/mdsite/internal/htmlnode"
	"github.com/gerunddev/mdsite/internal/inline"
	"github.com/gerunddev/mdsite/internal/textnode"
)

// ErrInvalidHeading is returned when a heading block lacks its "#... " prefix
var ErrInvalidHeading = errors.New("invalid heading")

// Lower converts a classified block into its HTML node
func Lower(block string, t Type) (*htmlnode.Node, error) {
	switch t.Kind {
	case Heading:
		return lowerHeading(block, t.Level)
	case Code:
		return lowerCode(block)
	case Quote:
		return lowerQuote(block)
	case UnorderedList:
		return lowerList(block, "ul", func(_ int, line string) string {
			return strings.TrimPrefix(line, "- ")
		})
	case OrderedList:
		return lowerList(block, "ol", func(i int, line string) string {
			return strings.TrimPrefix(line, orderedMarker(i+1))
		})
	case Paragraph:
		return lowerParagraph(block)
	default:
		return nil, fmt.Errorf("unsupported block type: %s", t)
	}
}

// LowerBlock classifies and lowers in one step
func LowerBlock(block string) (*htmlnode.Node, error) {
	return Lower(block, Classify(block))
}

func lowerHeading(block string, level int) (*htmlnode.Node, error) {
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("%w: level %d", ErrInvalidHeading, level)
	}

	prefix := strings.Repeat("#", level) + " "
	if !strings.HasPrefix(block, prefix) {
		return nil, fmt.Errorf("%w: %q does not start with %q", ErrInvalidHeading, firstLine(block), prefix)
	}

	children, err := inlineChildren(block[len(prefix):])
	if err != nil {
		return nil, err
	}
	return htmlnode.NewParent(fmt.Sprintf("h%d", level), children)
}

// lowerCode keeps the body verbatim; no inline parsing inside fences
func lowerCode(block string) (*htmlnode.Node, error) {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("code block %q is missing a fence line", block)
	}

	body := lines[1 : len(lines)-1]
	// A closing fence may share a line with the last line of code
	if last := strings.TrimSuffix(lines[len(lines)-1], fence); last != "" {
		body = append(body, last)
	}

	code := htmlnode.NewLeaf("code", strings.Join(body, "\n"))
	return htmlnode.NewParent("pre", []*htmlnode.Node{code})
}

func lowerQuote(block string) (*htmlnode.Node, error) {
	lines := strings.Split(block, "\n")
	stripped := make([]string, 0, len(lines))

	for _, line := range lines {
		if !strings.HasPrefix(line, ">") {
			return nil, fmt.Errorf("invalid quote line %q", line)
		}
		line = strings.TrimPrefix(line, ">")
		stripped = append(stripped, strings.TrimPrefix(line, " "))
	}

	children, err := inlineChildren(strings.Join(stripped, " "))
	if err != nil {
		return nil, err
	}
	return htmlnode.NewParent("blockquote", children)
}

func lowerList(block, tag string, item func(i int, line string) string) (*htmlnode.Node, error) {
	lines := strings.Split(block, "\n")
	items := make([]*htmlnode.Node, 0, len(lines))

	for i, line := range lines {
		children, err := inlineChildren(item(i, line))
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i+1, err)
		}

		li, err := htmlnode.NewParent("li", children)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}

	return htmlnode.NewParent(tag, items)
}

func lowerParagraph(block string) (*htmlnode.Node, error) {
	text := strings.Join(strings.Split(block, "\n"), " ")

	children, err := inlineChildren(text)
	if err != nil {
		return nil, err
	}
	return htmlnode.NewParent("p", children)
}

// inlineChildren tokenizes text into HTML leaves. Empty content yields a
// single empty text leaf so the enclosing parent is never childless.
func inlineChildren(text string) ([]*htmlnode.Node, error) {
	nodes, err := inline.Tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return []*htmlnode.Node{htmlnode.NewText("")}, nil
	}
	return textnode.ToHTMLNodes(nodes)
}

func firstLine(block string) string {
	if i := strings.IndexByte(block, '\n'); i >= 0 {
		return block[:i]
	}
	return block
}
