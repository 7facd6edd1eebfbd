package blocks

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gerunddev/mdsite/internal/inline"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name: "paragraphs and list",
			input: `
This is **bolded** paragraph

This is another paragraph with _italic_ text and ` + "`code`" + ` here
This is the same paragraph on a new line

- This is a list
- with items
`,
			expected: []string{
				"This is **bolded** paragraph",
				"This is another paragraph with _italic_ text and `code` here\nThis is the same paragraph on a new line",
				"- This is a list\n- with items",
			},
		},
		{
			name:     "multiple blank lines collapse",
			input:    "a\n\n\n\nb",
			expected: []string{"a", "b"},
		},
		{
			name:     "whitespace-only lines separate blocks",
			input:    "a\n   \n\t\nb",
			expected: []string{"a", "b"},
		},
		{
			name:     "crlf line endings",
			input:    "# Title\r\n\r\nbody\r\nmore",
			expected: []string{"# Title", "body\nmore"},
		},
		{
			name:     "blocks are trimmed",
			input:    "   indented start\nend   \n\n",
			expected: []string{"indented start\nend"},
		},
		{
			name:     "empty document",
			input:    "\n\n  \n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := Split(tt.input)
			if !reflect.DeepEqual(actual, tt.expected) {
				t.Errorf("Split(%q)\n got: %q\nwant: %q", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Type
	}{
		{name: "heading 1", input: "# Heading 1", expected: Type{Kind: Heading, Level: 1}},
		{name: "heading 3", input: "### Heading 3", expected: Type{Kind: Heading, Level: 3}},
		{name: "heading 6", input: "###### Heading 6", expected: Type{Kind: Heading, Level: 6}},
		{name: "seven hashes", input: "####### Not a heading", expected: Type{Kind: Paragraph}},
		{name: "hash without space", input: "#hashtag", expected: Type{Kind: Paragraph}},
		{name: "code block", input: "```\ndef foo():\n    return 42\n```", expected: Type{Kind: Code}},
		{name: "code with language", input: "```go\nx := 1\n```", expected: Type{Kind: Code}},
		{name: "code containing list lines", input: "```\n- one\n- two\n```", expected: Type{Kind: Code}},
		{name: "code containing quote lines", input: "```\n> quoted\n```", expected: Type{Kind: Code}},
		{name: "single line fence", input: "```x```", expected: Type{Kind: Paragraph}},
		{name: "quote", input: "> This is a quote\n> on two lines", expected: Type{Kind: Quote}},
		{name: "quote without space", input: ">tight\n> loose", expected: Type{Kind: Quote}},
		{name: "mixed quote", input: "> quote\nnot quote", expected: Type{Kind: Paragraph}},
		{name: "unordered list", input: "- item 1\n- item 2", expected: Type{Kind: UnorderedList}},
		{name: "dash without space", input: "- item 1\n-item 2", expected: Type{Kind: Paragraph}},
		{name: "ordered list", input: "1. first\n2. second\n3. third", expected: Type{Kind: OrderedList}},
		{name: "ordered list past ten", input: "1. a\n2. b\n3. c\n4. d\n5. e\n6. f\n7. g\n8. h\n9. i\n10. j", expected: Type{Kind: OrderedList}},
		{name: "ordered list sequence break", input: "1. a\n2. b\n4. c", expected: Type{Kind: Paragraph}},
		{name: "ordered list not starting at one", input: "2. a\n3. b", expected: Type{Kind: Paragraph}},
		{name: "paragraph", input: "Just a normal paragraph of text.", expected: Type{Kind: Paragraph}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := Classify(tt.input)
			if actual != tt.expected {
				t.Errorf("Classify(%q) = %s, want %s", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestLower(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "heading",
			input:    "## Some _styled_ heading",
			expected: "<h2>Some <i>styled</i> heading</h2>",
		},
		{
			name:     "heading keeps extra spaces after the first",
			input:    "#  spaced",
			expected: "<h1> spaced</h1>",
		},
		{
			name:     "code is verbatim",
			input:    "```\nThis is text that _should_ remain\nthe **same** even with inline stuff\n```",
			expected: "<pre><code>This is text that _should_ remain\nthe **same** even with inline stuff</code></pre>",
		},
		{
			name:     "code keeps indentation",
			input:    "```python\ndef foo():\n    return 42\n```",
			expected: "<pre><code>def foo():\n    return 42</code></pre>",
		},
		{
			name:     "empty code block",
			input:    "```\n```",
			expected: "<pre><code></code></pre>",
		},
		{
			name:     "closing fence on last code line",
			input:    "```\ncode\nfoo```",
			expected: "<pre><code>code\nfoo</code></pre>",
		},
		{
			name:     "quote joins lines",
			input:    "> This is a\n> **quote**\n>tight",
			expected: "<blockquote>This is a <b>quote</b> tight</blockquote>",
		},
		{
			name:     "unordered list",
			input:    "- This is a list\n- with _items_\n- and `code`",
			expected: "<ul><li>This is a list</li><li>with <i>items</i></li><li>and <code>code</code></li></ul>",
		},
		{
			name:     "ordered list",
			input:    "1. first\n2. **second**",
			expected: "<ol><li>first</li><li><b>second</b></li></ol>",
		},
		{
			name:     "ordered list with two digit markers",
			input:    "1. a\n2. b\n3. c\n4. d\n5. e\n6. f\n7. g\n8. h\n9. i\n10. j",
			expected: "<ol><li>a</li><li>b</li><li>c</li><li>d</li><li>e</li><li>f</li><li>g</li><li>h</li><li>i</li><li>j</li></ol>",
		},
		{
			name:     "empty trailing list item before split trimming",
			input:    "- one\n- ",
			expected: "<ul><li>one</li><li></li></ul>",
		},
		{
			name:     "paragraph joins lines",
			input:    "This is **bolded** paragraph\ntext in a p\ntag here",
			expected: "<p>This is <b>bolded</b> paragraph text in a p tag here</p>",
		},
		{
			name:     "paragraph with link and image",
			input:    "See [docs](https://go.dev) and ![logo](/logo.png)",
			expected: `<p>See <a href="https://go.dev">docs</a> and <img src="/logo.png" alt="logo"></img></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := LowerBlock(tt.input)
			if err != nil {
				t.Fatalf("LowerBlock(%q) failed: %v", tt.input, err)
			}
			if actual := node.Render(); actual != tt.expected {
				t.Errorf("LowerBlock(%q)\n got: %q\nwant: %q", tt.input, actual, tt.expected)
			}
		})
	}
}

func TestLowerInvalidHeading(t *testing.T) {
	_, err := Lower("Not a heading", Type{Kind: Heading, Level: 2})
	if !errors.Is(err, ErrInvalidHeading) {
		t.Errorf("Expected ErrInvalidHeading, got %v", err)
	}

	_, err = Lower("####### deep", Type{Kind: Heading, Level: 7})
	if !errors.Is(err, ErrInvalidHeading) {
		t.Errorf("Expected ErrInvalidHeading for level 7, got %v", err)
	}
}

func TestLowerPropagatesInlineErrors(t *testing.T) {
	tests := []string{
		"# Title with `unclosed code",
		"a paragraph with **unclosed bold",
		"> a quote with [broken link",
		"- fine\n- item with _dangling",
		"1. fine\n2. [x](",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := LowerBlock(input)
			if !errors.Is(err, inline.ErrMalformedInline) {
				t.Errorf("LowerBlock(%q) error = %v, want ErrMalformedInline", input, err)
			}
		})
	}
}

func TestLowerUnknownKind(t *testing.T) {
	if _, err := Lower("x", Type{Kind: Kind(99)}); err == nil {
		t.Error("Expected error for unknown block kind")
	}
}
