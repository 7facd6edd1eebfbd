package inline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gerunddev/mdsite/internal/textnode"
)

// ErrMalformedInline is matched by every inline syntax error
var ErrMalformedInline = errors.New("malformed inline markdown")

// SyntaxError describes an unbalanced delimiter or unterminated link/image
type SyntaxError struct {
	Delimiter string
	Text      string
	Reason    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s %q in %q", e.Reason, e.Delimiter, e.Text)
}

// Unwrap lets errors.Is match ErrMalformedInline
func (e *SyntaxError) Unwrap() error {
	return ErrMalformedInline
}

// delimiters are applied in order; code first so its contents are never
// re-scanned for emphasis
var delimiters = []struct {
	marker  string
	variant textnode.Variant
}{
	{"`", textnode.Code},
	{"**", textnode.Bold},
	{"_", textnode.Italic},
}

// Tokenize splits raw text into typed inline runs
func Tokenize(text string) ([]textnode.TextNode, error) {
	if text == "" {
		return nil, nil
	}

	nodes := []textnode.TextNode{textnode.New(text, textnode.Plain)}

	var err error
	for _, d := range delimiters {
		nodes, err = SplitDelimiter(nodes, d.marker, d.variant)
		if err != nil {
			return nil, err
		}
	}

	nodes, err = SplitImages(nodes)
	if err != nil {
		return nil, err
	}

	return SplitLinks(nodes)
}

// SplitDelimiter splits every plain node on delimiter. Runs at odd split
// index become variant; non-plain nodes pass through untouched.
func SplitDelimiter(nodes []textnode.TextNode, delimiter string, variant textnode.Variant) ([]textnode.TextNode, error) {
	out := make([]textnode.TextNode, 0, len(nodes))

	for _, node := range nodes {
		if node.Variant != textnode.Plain {
			out = append(out, node)
			continue
		}

		parts := strings.Split(node.Text, delimiter)
		if len(parts)%2 == 0 {
			return nil, &SyntaxError{
				Delimiter: delimiter,
				Text:      node.Text,
				Reason:    "unclosed delimiter",
			}
		}

		for i, part := range parts {
			if i%2 == 0 {
				if part != "" {
					out = append(out, textnode.New(part, textnode.Plain))
				}
				continue
			}
			out = append(out, textnode.New(part, variant))
		}
	}

	return out, nil
}

// SplitImages extracts ![alt](url) from plain nodes
func SplitImages(nodes []textnode.TextNode) ([]textnode.TextNode, error) {
	return splitBracketed(nodes, "![", textnode.NewImage)
}

// SplitLinks extracts [text](url) from plain nodes
func SplitLinks(nodes []textnode.TextNode) ([]textnode.TextNode, error) {
	return splitBracketed(nodes, "[", textnode.NewLink)
}

func splitBracketed(nodes []textnode.TextNode, open string, build func(text, url string) textnode.TextNode) ([]textnode.TextNode, error) {
	out := make([]textnode.TextNode, 0, len(nodes))

	for _, node := range nodes {
		if node.Variant != textnode.Plain {
			out = append(out, node)
			continue
		}

		extracted, err := scanBracketed(node.Text, open, build)
		if err != nil {
			return nil, err
		}
		out = append(out, extracted...)
	}

	return out, nil
}

// scanBracketed walks text left to right. A bracket pair not directly
// followed by "(" is literal and stays in the surrounding plain run.
func scanBracketed(text, open string, build func(text, url string) textnode.TextNode) ([]textnode.TextNode, error) {
	var out []textnode.TextNode
	var literal strings.Builder
	rest := text

	for {
		start := strings.Index(rest, open)
		if start < 0 {
			break
		}

		body := rest[start+len(open):]
		closeBracket := strings.Index(body, "]")
		if closeBracket < 0 {
			return nil, &SyntaxError{Delimiter: open, Text: text, Reason: "unterminated bracket"}
		}

		after := body[closeBracket+1:]
		if !strings.HasPrefix(after, "(") {
			literal.WriteString(rest[:start+len(open)+closeBracket+1])
			rest = after
			continue
		}

		target := after[1:]
		closeParen := strings.Index(target, ")")
		if closeParen < 0 {
			return nil, &SyntaxError{Delimiter: "(", Text: text, Reason: "unterminated paren"}
		}

		url := target[:closeParen]
		if url == "" {
			return nil, &SyntaxError{Delimiter: "()", Text: text, Reason: "empty url"}
		}

		literal.WriteString(rest[:start])
		if literal.Len() > 0 {
			out = append(out, textnode.New(literal.String(), textnode.Plain))
			literal.Reset()
		}
		out = append(out, build(body[:closeBracket], url))

		rest = target[closeParen+1:]
	}

	literal.WriteString(rest)
	if literal.Len() > 0 {
		out = append(out, textnode.New(literal.String(), textnode.Plain))
	}

	return out, nil
}
