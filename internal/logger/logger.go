// Package logger provides a lightweight, centralized logging facility
// with configurable verbosity levels.
//
// Design goals:
//   - Simple API (Errorf, Infof, Debugf, Tracef)
//   - Centralized verbosity control
//   - Zero formatting logic at call sites
//   - Structured output through log/slog, optionally to a rotating file
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("solving %s grid", kind)
//	logger.Debugf("ds=%g dt=%g", ds, dt)
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only critical failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

// levelTrace sits below slog.LevelDebug so handlers filter it separately.
const levelTrace = slog.LevelDebug - 4

// Options configures the log sink.
type Options struct {
	Verbosity  int    // 0=errors, 1=info, 2=debug, 3=trace
	Format     string // "text" (default) or "json"
	File       string // log file path; empty logs to stderr
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int    // rotated files to keep
	MaxAgeDays int    // days to keep rotated files
	Compress   bool   // gzip rotated files
}

var (
	mu      sync.RWMutex
	current = Info
	level   = new(slog.LevelVar)
	base    = newSlog(os.Stderr, "text")
	closer  io.Closer
)

func init() {
	level.Set(toSlog(current))
}

// Configure replaces the sink and verbosity. It is typically called once
// during application startup (e.g. after parsing CLI flags).
func Configure(opts Options) error {
	var w io.Writer = os.Stderr
	var c io.Closer
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		w, c = lj, lj
	}
	format := strings.ToLower(opts.Format)
	if format != "" && format != "text" && format != "json" {
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	base, closer = newSlog(w, format), c
	setVerbosity(opts.Verbosity)
	return nil
}

// SetOutput sends log records to w, keeping the current verbosity.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newSlog(w, "text")
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// SetVerbosity sets the global logging verbosity.
func SetVerbosity(v int) {
	mu.Lock()
	defer mu.Unlock()
	setVerbosity(v)
}

// Verbosity returns the active level.
func Verbosity() Level {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func setVerbosity(v int) {
	current = Level(min(max(v, int(Error)), int(Trace)))
	level.Set(toSlog(current))
}

func newSlog(w io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == levelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func toSlog(l Level) slog.Level {
	switch l {
	case Error:
		return slog.LevelError
	case Info:
		return slog.LevelInfo
	case Debug:
		return slog.LevelDebug
	default:
		return levelTrace
	}
}

// logf is the internal logging helper.
// It checks verbosity and delegates output to the slog handler.
func logf(l Level, format string, args ...any) {
	mu.RLock()
	lg, on := base, current >= l
	mu.RUnlock()
	if on {
		lg.Log(context.Background(), toSlog(l), fmt.Sprintf(format, args...))
	}
}

// Errorf logs an error-level message.
// Use this for failures that require attention.
func Errorf(format string, args ...any) {
	logf(Error, format, args...)
}

// Infof logs an informational message.
// Use this for major lifecycle events.
func Infof(format string, args ...any) {
	logf(Info, format, args...)
}

// Debugf logs debugging information.
// Use this for diagnostic output useful during development.
func Debugf(format string, args ...any) {
	logf(Debug, format, args...)
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	logf(Trace, format, args...)
}
