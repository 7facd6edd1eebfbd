package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/convert"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SourceExt is the extension of markdown sources
const SourceExt = ".md"

// PageError ties a conversion failure to its source file
type PageError struct {
	Source string
	Err    error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Result represents the result of a build
type Result struct {
	BuildID     string
	Generated   []string // destination paths
	Skipped     int
	Removed     int
	StaticFiles int
	Errors      []*PageError
	StartTime   time.Time
	EndTime     time.Time
}

// Err joins all page errors, or returns nil if every page succeeded
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// String returns a human-readable summary of the build
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Build complete: %d pages generated, %d unchanged, %d static files, %d errors (took %v)",
		len(r.Generated),
		r.Skipped,
		r.StaticFiles,
		len(r.Errors),
		duration.Round(time.Millisecond),
	)
}

// Builder generates a site from a content directory
type Builder struct {
	config    *config.Config
	state     *state.State
	converter *convert.Converter
	logger    *logger.Logger
}

// NewBuilder creates a new builder instance
func NewBuilder(cfg *config.Config, st *state.State) *Builder {
	return &Builder{
		config: cfg,
		state:  st,
		// Files are already converted in parallel, so blocks are not
		converter: convert.NewConverter(1),
		logger:    logger.Discard(),
	}
}

// SetLogger sets the logger for the builder
func (b *Builder) SetLogger(l *logger.Logger) {
	b.logger = l
}

// State returns the manifest the builder updates
func (b *Builder) State() *state.State {
	return b.state
}

// Build regenerates the whole site: the public dir is recreated from the
// static dir and every source is converted
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	result := b.start()

	template, err := os.ReadFile(b.config.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	if err := b.resetPublic(result); err != nil {
		return nil, err
	}

	sources, err := ScanSources(b.config.ContentDir, b.config)
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	b.state.Pages = make(map[string]*state.PageState)

	if err := b.generate(ctx, sources, string(template), result); err != nil {
		return nil, err
	}

	return b.finish(result)
}

// Rebuild regenerates only sources that changed since the last build.
// A changed template invalidates every page.
func (b *Builder) Rebuild(ctx context.Context) (*Result, error) {
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	result := b.start()

	template, err := os.ReadFile(b.config.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	templateChanged, err := b.state.TemplateChanged(b.config.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to hash template: %w", err)
	}

	if b.config.StaticDir != "" {
		if _, err := os.Stat(b.config.StaticDir); err == nil {
			n, err := copyTree(b.config.StaticDir, b.config.PublicDir)
			if err != nil {
				return nil, err
			}
			result.StaticFiles = n
		}
	}

	sources, err := ScanSources(b.config.ContentDir, b.config)
	if err != nil {
		return nil, fmt.Errorf("failed to scan content: %w", err)
	}

	result.Removed = b.removeDeleted(sources)

	var pending []string
	for _, src := range sources {
		if templateChanged || b.needsBuild(src) {
			pending = append(pending, src)
			continue
		}
		b.logger.Skipped(src, "unchanged")
		result.Skipped++
	}

	if err := b.generate(ctx, pending, string(template), result); err != nil {
		return nil, err
	}

	return b.finish(result)
}

func (b *Builder) start() *Result {
	result := &Result{
		BuildID:   uuid.New().String(),
		StartTime: time.Now(),
	}
	b.logger.BuildStarted(result.BuildID, b.config.ContentDir, b.config.PublicDir)
	return result
}

func (b *Builder) finish(result *Result) (*Result, error) {
	if err := b.state.SetTemplate(b.config.Template); err != nil {
		b.logger.StateError("hash template", err)
	}
	b.state.BuildID = result.BuildID
	b.state.BuiltAt = time.Now()

	result.EndTime = time.Now()
	b.logger.BuildCompleted(result.BuildID, len(result.Generated), result.Skipped,
		len(result.Errors), result.EndTime.Sub(result.StartTime))

	return result, result.Err()
}

func (b *Builder) resetPublic(result *Result) error {
	if b.config.StaticDir != "" {
		if _, err := os.Stat(b.config.StaticDir); err == nil {
			n, err := CopyStatic(b.config.StaticDir, b.config.PublicDir)
			if err != nil {
				return err
			}
			result.StaticFiles = n
			b.logger.StaticCopied(b.config.StaticDir, b.config.PublicDir, n)
			return nil
		}
		b.logger.Skipped(b.config.StaticDir, "static dir does not exist")
	}

	if err := os.RemoveAll(b.config.PublicDir); err != nil {
		return fmt.Errorf("failed to clear public dir: %w", err)
	}
	if err := os.MkdirAll(b.config.PublicDir, 0755); err != nil {
		return fmt.Errorf("failed to create public dir: %w", err)
	}
	return nil
}

func (b *Builder) needsBuild(src string) bool {
	page, ok := b.state.Pages[src]
	if !ok {
		return true
	}
	if _, err := os.Stat(page.Dest); err != nil {
		return true
	}
	changed, err := b.state.HasChanged(src)
	return err != nil || changed
}

// removeDeleted drops outputs whose source no longer exists
func (b *Builder) removeDeleted(sources []string) int {
	current := make(map[string]bool, len(sources))
	for _, src := range sources {
		current[src] = true
	}

	removed := 0
	for _, src := range b.state.Sources() {
		if current[src] {
			continue
		}
		dest := b.state.Pages[src].Dest
		if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
			b.logger.FileError(dest, err)
			continue
		}
		b.state.Forget(src)
		b.logger.Skipped(src, "source removed")
		removed++
	}
	return removed
}

type outcome struct {
	source string
	dest   string
	page   *convert.Page
	err    error
}

// generate converts sources with a bounded worker pool. Outcomes are stored
// by index and applied in source order once every worker is done.
func (b *Builder) generate(ctx context.Context, sources []string, template string, result *Result) error {
	outcomes := make([]outcome, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.config.Workers, 1))

	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			dest, err := DestPath(b.config.ContentDir, b.config.PublicDir, src)
			if err != nil {
				outcomes[i] = outcome{source: src, err: err}
				return nil
			}

			page, err := b.writePage(src, template, dest)
			outcomes[i] = outcome{source: src, dest: dest, page: page, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, o := range outcomes {
		if o.err != nil {
			b.state.Forget(o.source)
			b.logger.PageFailed(o.source, o.err)
			result.Errors = append(result.Errors, &PageError{Source: o.source, Err: o.err})
			continue
		}

		if err := b.state.Update(o.source, o.dest, o.page.Title); err != nil {
			b.logger.StateError("update "+o.source, err)
		}
		b.logger.PageGenerated(o.source, o.dest, o.page.Title)
		result.Generated = append(result.Generated, o.dest)
	}

	return nil
}

func (b *Builder) writePage(src, template, dest string) (*convert.Page, error) {
	markdown, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	return writePage(b.converter, string(markdown), template, dest)
}

// GeneratePage converts one markdown file into dest using the template
// file. Nothing is written if conversion or title extraction fails.
func GeneratePage(c *convert.Converter, src, templatePath, dest string) (*convert.Page, error) {
	markdown, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	template, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	return writePage(c, string(markdown), string(template), dest)
}

func writePage(c *convert.Converter, markdown, template, dest string) (*convert.Page, error) {
	page, err := c.RenderPage(markdown, template)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(page.HTML), 0644); err != nil {
		return nil, fmt.Errorf("failed to write page: %w", err)
	}

	return page, nil
}

// DestPath maps content/a/b.md to public/a/b.html
func DestPath(contentDir, publicDir, src string) (string, error) {
	rel, err := filepath.Rel(contentDir, src)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", src, contentDir)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	return filepath.Join(publicDir, rel), nil
}

// ScanSources returns every markdown file under dir, in walk order,
// skipping paths matched by the config's exclude patterns
func ScanSources(dir string, cfg *config.Config) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			if path != dir && cfg != nil && cfg.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(path) != SourceExt {
			return nil
		}
		if cfg != nil && cfg.Excluded(rel) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
