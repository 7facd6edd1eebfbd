package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/convert"
	"github.com/gerunddev/mdsite/internal/styles"
)

const defaultTemplate = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>` + convert.TitlePlaceholder + `</title>
    <link href="/index.css" rel="stylesheet" />
  </head>
  <body>
    <article>` + convert.ContentPlaceholder + `</article>
  </body>
</html>
`

const defaultIndex = `# Hello

Write pages in **markdown** under the content directory.
`

// Init writes a default config file and a starter site layout
func Init(args []string) {
	exit(runInit(args, os.Stdout))
}

func runInit(args []string, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	path := opts.configPath
	if path == "" {
		path = config.ConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Wrote ")+styles.PathStyle.Render(path))

	starter := []struct {
		path    string
		content string
	}{
		{cfg.Template, defaultTemplate},
		{filepath.Join(cfg.ContentDir, "index.md"), defaultIndex},
	}

	for _, f := range starter {
		if _, err := os.Stat(f.path); err == nil {
			fmt.Fprintln(out, styles.DimStyle.Render("  Kept existing "+f.path))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(f.path), err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Wrote ")+styles.PathStyle.Render(f.path))
	}

	if err := os.MkdirAll(cfg.StaticDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.StaticDir, err)
	}

	return nil
}
