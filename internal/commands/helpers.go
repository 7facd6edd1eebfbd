package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/styles"
)

// options holds the flags shared by every subcommand
type options struct {
	configPath string
	template   string
	verbose    bool
	plain      bool
	force      bool
	args       []string // positional arguments
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--config", "--template":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			i++
			if arg == "--config" {
				opts.configPath = args[i]
			} else {
				opts.template = args[i]
			}
		case "--verbose":
			opts.verbose = true
		case "--plain":
			opts.plain = true
		case "--force":
			opts.force = true
		default:
			if strings.HasPrefix(arg, "--") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			opts.args = append(opts.args, arg)
		}
	}
	return opts, nil
}

func (o *options) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger writes to the configured log file, and to stderr when console is set
func (o *options) newLogger(cfg *config.Config, console bool) (*logger.Logger, func()) {
	level := log.InfoLevel
	if o.verbose {
		level = log.DebugLevel
	}

	var extra []io.Writer
	if console {
		extra = append(extra, os.Stderr)
	}

	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level, extra...)
		if err == nil {
			l.ConfigLoaded(cfg.ContentDir, cfg.PublicDir, cfg.Workers)
			return l, cleanup
		}
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("! Cannot open log file: "+err.Error()))
	}

	if console {
		return logger.NewWithLevel(os.Stderr, level), func() {}
	}
	return logger.Discard(), func() {}
}

func loadState(cfg *config.Config) (*state.State, error) {
	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return st, nil
}

// exit prints err in the error style and exits non-zero
func exit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Error: "+err.Error()))
	os.Exit(1)
}

var errUsage = errors.New("wrong number of arguments")

// LastBuild is the most recent build summary found in the log file
type LastBuild struct {
	Time  time.Time
	Pages int
	Found bool
}

// ParseLogFile reads the last N lines from the log file and extracts the
// most recent build summary
func ParseLogFile(logPath string, maxLines int) ([]string, LastBuild) {
	var last LastBuild

	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, last
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "build completed") {
			continue
		}
		last.Found = true

		// Format: 2026-01-02 15:04:05 INFO build completed
		if len(line) > 19 {
			if t, err := time.Parse(time.DateTime, line[:19]); err == nil {
				last.Time = t
			}
		}

		if idx := strings.Index(line, "pages_generated="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "pages_generated=%d", &last.Pages) //nolint:errcheck // best effort parsing
		}
		break
	}

	return recentLines, last
}
