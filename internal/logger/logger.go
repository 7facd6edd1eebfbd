package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file, creating its
// directory. Entries are also written to any extra writers.
func NewFileLogger(path string, level log.Level, extra ...io.Writer) (*Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewMultiLogger(level, append([]io.Writer{f}, extra...)...), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// BuildStarted logs the start of a site build
func (l *Logger) BuildStarted(buildID, contentDir, publicDir string) {
	l.Info("build started",
		"build_id", buildID,
		"content_dir", contentDir,
		"public_dir", publicDir)
}

// BuildCompleted logs the completion of a site build
func (l *Logger) BuildCompleted(buildID string, pages, skipped, errors int, duration time.Duration) {
	l.Info("build completed",
		"build_id", buildID,
		"pages_generated", pages,
		"pages_skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// PageGenerated logs a successfully written page
func (l *Logger) PageGenerated(source, dest, title string) {
	l.Info("page generated",
		"source", source,
		"dest", dest,
		"title", title)
}

// PageFailed logs a page that could not be generated. No output file exists for it.
func (l *Logger) PageFailed(source string, err error) {
	l.Error("page failed",
		"source", source,
		"error", err)
}

// StaticCopied logs the static asset copy step
func (l *Logger) StaticCopied(staticDir, publicDir string, files int) {
	l.Info("static copied",
		"static_dir", staticDir,
		"public_dir", publicDir,
		"files", files)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(contentDir, publicDir string, workers int) {
	l.Debug("config loaded",
		"content_dir", contentDir,
		"public_dir", publicDir,
		"workers", workers)
}

// Skipped logs when a source is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}

// FileError logs a file operation that failed outside of page generation
func (l *Logger) FileError(path string, err error) {
	l.Error("file error",
		"path", path,
		"error", err)
}

// WatchTick logs one pass of the watch loop
func (l *Logger) WatchTick(changed int) {
	l.Debug("watch tick",
		"pages_changed", changed)
}
