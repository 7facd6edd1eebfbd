package commands

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/convert"
	"github.com/gerunddev/mdsite/internal/diff"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/gerunddev/mdsite/internal/tui"
)

const diffWidth = 120

// Diff shows what rebuilding a page would change in its output
func Diff(args []string) {
	exit(runDiff(args, os.Stdout))
}

func runDiff(args []string, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.args) != 1 {
		return fmt.Errorf("usage: mdsite diff <src>: %w", errUsage)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	unified, err := diff.Page(cfg, opts.args[0])
	if err != nil {
		return err
	}

	if unified == "" {
		fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Output is up to date"))
		return nil
	}

	if opts.plain {
		fmt.Fprint(out, unified)
		return nil
	}
	fmt.Fprint(out, diff.Render(unified, diffWidth))
	return nil
}

// Browse opens the interactive page browser
func Browse(args []string) {
	exit(runBrowse(args))
}

func runBrowse(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	log, cleanup := opts.newLogger(cfg, false)
	defer cleanup()

	st, err := loadState(cfg)
	if err != nil {
		return err
	}

	diffFunc := func(src string) (string, error) {
		unified, err := diff.Page(cfg, src)
		if err != nil || unified == "" {
			return "", err
		}
		return diff.Render(unified, diffWidth), nil
	}

	rb := &pageRebuilder{cfg: cfg, st: st}
	rebuildFunc := func(src string) error {
		if err := rb.Rebuild(src); err != nil {
			log.PageFailed(src, err)
			return err
		}
		return nil
	}

	m := tui.InitBrowseModel(rb.Pages(), diffFunc, rebuildFunc, rb.Pages)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// pageRebuilder serializes access to the manifest. Bubble Tea runs each
// command on its own goroutine.
type pageRebuilder struct {
	mu  sync.Mutex
	cfg *config.Config
	st  *state.State
}

// Rebuild regenerates src and saves the manifest
func (r *pageRebuilder) Rebuild(src string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rebuildPage(r.cfg, r.st, src)
}

// Pages snapshots the tracked pages
func (r *pageRebuilder) Pages() []tui.PageInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return tui.CollectPages(r.st)
}

// rebuildPage regenerates a single tracked page and records it
func rebuildPage(cfg *config.Config, st *state.State, src string) error {
	dest, err := site.DestPath(cfg.ContentDir, cfg.PublicDir, src)
	if err != nil {
		return err
	}

	page, err := site.GeneratePage(convert.NewConverter(cfg.Workers), src, cfg.Template, dest)
	if err != nil {
		return err
	}

	if err := st.Update(src, dest, page.Title); err != nil {
		return err
	}
	return st.Save(cfg.StateFile)
}

// Status prints a summary of the last build
func Status(args []string) {
	exit(runStatus(args, os.Stdout))
}

func runStatus(args []string, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	st, err := loadState(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, styles.TitleStyle.Render("mdsite status"))
	fmt.Fprintln(out)

	if st.BuildID == "" {
		fmt.Fprintln(out, styles.DimStyle.Render("No build recorded yet. Run 'mdsite build'."))
		return nil
	}

	fmt.Fprintf(out, "  Last build: %s %s\n",
		st.BuiltAt.Local().Format("2006-01-02 15:04:05"),
		styles.DimStyle.Render("("+st.BuildID+")"))

	counts := map[string]int{}
	pages := tui.CollectPages(st)
	for _, p := range pages {
		counts[p.Status]++
	}
	fmt.Fprintf(out, "  Pages:      %d tracked, %s, %s, %s, %s\n",
		len(pages),
		styles.Status("ok")+fmt.Sprintf(" %d", counts["ok"]),
		styles.Status("stale")+fmt.Sprintf(" %d", counts["stale"]),
		styles.Status("missing")+fmt.Sprintf(" %d", counts["missing"]),
		styles.Status("gone")+fmt.Sprintf(" %d", counts["gone"]))

	if cfg.LogFile != "" {
		if _, last := ParseLogFile(cfg.LogFile, 200); last.Found {
			fmt.Fprintf(out, "  Last log:   %d page(s) generated at %s\n",
				last.Pages, last.Time.Format("2006-01-02 15:04:05"))
		}
	}

	return nil
}
