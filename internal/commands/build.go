package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gerunddev/mdsite/internal/convert"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/gerunddev/mdsite/internal/tui"
)

// Build regenerates the whole site
func Build(args []string) {
	exit(runBuild(args))
}

func runBuild(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	log, cleanup := opts.newLogger(cfg, opts.plain)
	defer cleanup()

	st, err := loadState(cfg)
	if err != nil {
		return err
	}

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *site.Result
	if opts.plain {
		result, err = builder.Build(ctx)
		if result != nil {
			fmt.Println(result.String())
		}
	} else {
		result, err = buildWithSpinner(ctx, builder)
	}

	if result != nil {
		if saveErr := st.Save(cfg.StateFile); saveErr != nil {
			log.StateError("save", saveErr)
		}
	}

	return err
}

func buildWithSpinner(ctx context.Context, builder *site.Builder) (*site.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(tui.InitBuildModel("Building site..."))

	done := make(chan tui.BuildMsg, 1)
	go func() {
		result, err := builder.Build(ctx)
		msg := tui.BuildMsg{Result: result, Err: err}
		done <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}

	// The user may quit before the build finishes
	cancel()
	msg := <-done
	return msg.Result, msg.Err
}

// Page converts one markdown file into an HTML page
func Page(args []string) {
	exit(runPage(args, os.Stdout))
}

func runPage(args []string, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.args) != 2 {
		return fmt.Errorf("usage: mdsite page <src> <dest> [--template file]: %w", errUsage)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	template := opts.template
	if template == "" {
		template = cfg.Template
	}

	src, dest := opts.args[0], opts.args[1]
	page, err := site.GeneratePage(convert.NewConverter(cfg.Workers), src, template, dest)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, styles.SuccessStyle.Render("✓ Generated ")+styles.PathStyle.Render(dest)+
		styles.DimStyle.Render(" ("+page.Title+")"))
	return nil
}

// Render prints the HTML fragment for a markdown file, or stdin
func Render(args []string) {
	exit(runRender(args, os.Stdin, os.Stdout))
}

func runRender(args []string, in io.Reader, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.args) > 1 {
		return fmt.Errorf("usage: mdsite render [file]: %w", errUsage)
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	markdown, err := readInput(opts.args, in)
	if err != nil {
		return err
	}

	html, err := convert.NewConverter(cfg.Workers).ToHTML(markdown)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, html)
	return nil
}

// Title prints the title of a markdown file
func Title(args []string) {
	exit(runTitle(args, os.Stdout))
}

func runTitle(args []string, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(opts.args) != 1 {
		return fmt.Errorf("usage: mdsite title <file>: %w", errUsage)
	}

	markdown, err := readInput(opts.args, nil)
	if err != nil {
		return err
	}

	title, err := convert.ExtractTitle(markdown)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.args[0], err)
	}

	fmt.Fprintln(out, title)
	return nil
}

func readInput(args []string, in io.Reader) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}
