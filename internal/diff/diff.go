package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/convert"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff of two texts, or "" if they are equal
func Unified(oldName, newName, old, new string) string {
	if old == new {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(oldName), old, new)
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, old, edits))
}

// Page diffs the current output for src against what a build would write now.
// A missing output file is treated as empty.
func Page(cfg *config.Config, src string) (string, error) {
	dest, err := site.DestPath(cfg.ContentDir, cfg.PublicDir, src)
	if err != nil {
		return "", err
	}

	markdown, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}

	template, err := os.ReadFile(cfg.Template)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	page, err := convert.NewConverter(cfg.Workers).RenderPage(string(markdown), string(template))
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", src, err)
	}

	current, err := os.ReadFile(dest)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read output: %w", err)
	}

	name := filepath.Base(dest)
	return Unified(name+" (current)", name+" (rebuilt)", string(current), page.HTML), nil
}

// Render pretty-prints a unified diff for the terminal
func Render(unified string, width int) string {
	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return fenced
	}

	rendered, err := renderer.Render(fenced)
	if err != nil {
		return fenced
	}

	return rendered
}
