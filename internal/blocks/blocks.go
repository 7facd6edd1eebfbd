package blocks

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the structural type of a block
type Kind int

const (
	Paragraph Kind = iota
	Heading
	Code
	Quote
	UnorderedList
	OrderedList
)

func (k Kind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case Code:
		return "code"
	case Quote:
		return "quote"
	case UnorderedList:
		return "unordered_list"
	case OrderedList:
		return "ordered_list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Type is a classified block. Level is 1-6 for headings and 0 otherwise.
type Type struct {
	Kind  Kind
	Level int
}

func (t Type) String() string {
	if t.Kind == Heading {
		return fmt.Sprintf("heading(%d)", t.Level)
	}
	return t.Kind.String()
}

const fence = "```"

var headingPattern = regexp.MustCompile(`^(#{1,6}) `)

// Split partitions a document into trimmed blocks separated by blank lines
func Split(document string) []string {
	document = strings.ReplaceAll(document, "\r\n", "\n")
	lines := strings.Split(document, "\n")

	var blocks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		block := strings.TrimSpace(strings.Join(current, "\n"))
		if block != "" {
			blocks = append(blocks, block)
		}
		current = nil
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// Classify determines the block type; the first matching rule wins
func Classify(block string) Type {
	if m := headingPattern.FindStringSubmatch(block); m != nil {
		return Type{Kind: Heading, Level: len(m[1])}
	}

	lines := strings.Split(block, "\n")

	if isCode(block, lines) {
		return Type{Kind: Code}
	}
	if isQuote(lines) {
		return Type{Kind: Quote}
	}
	if allHavePrefix(lines, "- ") {
		return Type{Kind: UnorderedList}
	}
	if isOrderedList(lines) {
		return Type{Kind: OrderedList}
	}

	return Type{Kind: Paragraph}
}

func isCode(block string, lines []string) bool {
	return len(lines) >= 2 &&
		strings.HasPrefix(lines[0], fence) &&
		strings.HasSuffix(block, fence)
}

func isQuote(lines []string) bool {
	for _, line := range lines {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ">") {
			return false
		}
	}
	return true
}

func allHavePrefix(lines []string, prefix string) bool {
	for _, line := range lines {
		if !strings.HasPrefix(line, prefix) {
			return false
		}
	}
	return true
}

func isOrderedList(lines []string) bool {
	for i, line := range lines {
		if !strings.HasPrefix(line, orderedMarker(i+1)) {
			return false
		}
	}
	return true
}

func orderedMarker(n int) string {
	return strconv.Itoa(n) + ". "
}
