package convert

import (
	"fmt"

	"github.com/gerunddev/mdsite/internal/blocks"
	"github.com/gerunddev/mdsite/internal/htmlnode"
	"golang.org/x/sync/errgroup"
)

// BlockError reports which block of a document failed to convert
type BlockError struct {
	Index int // zero-based position in the document
	Type  blocks.Type
	Block string
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d (%s): %v", e.Index+1, e.Type, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

// Converter turns markdown documents into HTML node trees
type Converter struct {
	// Workers bounds how many blocks are lowered concurrently.
	// Values below 2 lower blocks sequentially.
	Workers int
}

// NewConverter creates a converter that lowers blocks with the given parallelism
func NewConverter(workers int) *Converter {
	return &Converter{Workers: workers}
}

// ToHTMLNode converts a full document into a div-rooted node tree.
// No tree is returned if any block fails.
func (c *Converter) ToHTMLNode(document string) (*htmlnode.Node, error) {
	split := blocks.Split(document)
	if c.Workers < 2 || len(split) < 2 {
		return c.lowerSequential(split)
	}
	return c.lowerParallel(split)
}

// ToHTML converts a document and renders it
func (c *Converter) ToHTML(document string) (string, error) {
	root, err := c.ToHTMLNode(document)
	if err != nil {
		return "", err
	}
	return root.Render(), nil
}

func (c *Converter) lowerSequential(split []string) (*htmlnode.Node, error) {
	nodes := make([]*htmlnode.Node, 0, len(split))
	for i, block := range split {
		node, err := lowerAt(i, block)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return Assemble(nodes)
}

// lowerParallel lowers every block concurrently. Results are stored by
// block index, and the lowest-index failure is the one reported.
func (c *Converter) lowerParallel(split []string) (*htmlnode.Node, error) {
	nodes := make([]*htmlnode.Node, len(split))
	errs := make([]error, len(split))

	var g errgroup.Group
	g.SetLimit(c.Workers)

	for i, block := range split {
		g.Go(func() error {
			nodes[i], errs[i] = lowerAt(i, block)
			return nil
		})
	}
	_ = g.Wait() // workers never return an error; failures are in errs

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return Assemble(nodes)
}

func lowerAt(i int, block string) (*htmlnode.Node, error) {
	t := blocks.Classify(block)
	node, err := blocks.Lower(block, t)
	if err != nil {
		return nil, &BlockError{Index: i, Type: t, Block: block, Err: err}
	}
	return node, nil
}

// Assemble wraps lowered blocks in a single div root, preserving order.
// An empty document yields an empty div.
func Assemble(nodes []*htmlnode.Node) (*htmlnode.Node, error) {
	if len(nodes) == 0 {
		return htmlnode.NewParent("div", []*htmlnode.Node{htmlnode.NewText("")})
	}
	return htmlnode.NewParent("div", nodes)
}

// MarkdownToHTMLNode converts a document sequentially
func MarkdownToHTMLNode(document string) (*htmlnode.Node, error) {
	return NewConverter(1).ToHTMLNode(document)
}

// MarkdownToHTML converts a document sequentially and renders it
func MarkdownToHTML(document string) (string, error) {
	return NewConverter(1).ToHTML(document)
}
