package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/gerunddev/mdsite/internal/watch"
)

// Watch builds the site, then rebuilds changed pages until interrupted
func Watch(args []string) {
	exit(runWatch(args))
}

func runWatch(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	log, cleanup := opts.newLogger(cfg, opts.verbose)
	defer cleanup()

	st, err := loadState(cfg)
	if err != nil {
		return err
	}

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)

	w := watch.New(builder, cfg.Interval, func() error {
		return st.Save(cfg.StateFile)
	})
	w.SetLogger(log)
	w.OnBuild = printPass

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(styles.TitleStyle.Render("Watching ") + styles.PathStyle.Render(cfg.ContentDir) +
		styles.DimStyle.Render(fmt.Sprintf(" every %v, ctrl+c to stop", cfg.Interval)))

	if err := w.Run(ctx); err != nil {
		return err
	}

	fmt.Println(styles.DimStyle.Render("Stopped"))
	return nil
}

// printPass prints one line per watch pass that changed something
func printPass(result *site.Result, err error) {
	stamp := styles.DimStyle.Render(time.Now().Format(time.TimeOnly))

	if result == nil {
		fmt.Println(stamp, styles.ErrorStyle.Render("✗ "+err.Error()))
		return
	}

	if len(result.Generated) == 0 && len(result.Errors) == 0 && result.Removed == 0 {
		return
	}

	for _, dest := range result.Generated {
		fmt.Println(stamp, styles.SuccessStyle.Render("✓"), styles.PathStyle.Render(dest))
	}
	for _, e := range result.Errors {
		fmt.Println(stamp, styles.ErrorStyle.Render("✗"), styles.PathStyle.Render(e.Source), e.Err.Error())
	}
	if result.Removed > 0 {
		fmt.Println(stamp, styles.WarningStyle.Render(fmt.Sprintf("- removed %d page(s)", result.Removed)))
	}
}
