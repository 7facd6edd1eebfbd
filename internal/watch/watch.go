package watch

import (
	"context"
	"time"

	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/site"
)

// Builder is the part of site.Builder the loop drives
type Builder interface {
	Build(ctx context.Context) (*site.Result, error)
	Rebuild(ctx context.Context) (*site.Result, error)
}

// Watcher rebuilds a site on a fixed interval
type Watcher struct {
	builder  Builder
	interval time.Duration
	save     func() error
	logger   *logger.Logger

	// OnBuild, if set, is called after every pass with its outcome
	OnBuild func(result *site.Result, err error)
}

// New creates a watcher. save persists the build manifest after each pass.
func New(b Builder, interval time.Duration, save func() error) *Watcher {
	return &Watcher{
		builder:  b,
		interval: interval,
		save:     save,
		logger:   logger.Discard(),
	}
}

// SetLogger sets the logger for the watcher
func (w *Watcher) SetLogger(l *logger.Logger) {
	w.logger = l
}

// Run does a full build, then an incremental rebuild every interval until
// ctx is cancelled. Page failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watch started", "interval", w.interval)

	result, err := w.builder.Build(ctx)
	if err != nil {
		w.logger.Error("initial build failed", "error", err)
	}
	w.finish(result, err)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopping")
			return nil

		case <-ticker.C:
			result, err := w.builder.Rebuild(ctx)
			if ctx.Err() != nil {
				w.logger.Info("watch stopping")
				return nil
			}
			if err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}
			if result != nil {
				w.logger.WatchTick(len(result.Generated))
			}
			w.finish(result, err)
		}
	}
}

func (w *Watcher) finish(result *site.Result, err error) {
	if w.save != nil {
		if saveErr := w.save(); saveErr != nil {
			w.logger.StateError("save", saveErr)
		}
	}
	if w.OnBuild != nil {
		w.OnBuild(result, err)
	}
}
