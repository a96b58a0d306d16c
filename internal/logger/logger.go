// Package logger holds the process-wide slog logger of the command line tools.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It's initialized to discard all output by default.
// Call Init() to enable logging.
var L = discard()

const (
	logPrefix     = "cbctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Level   slog.Level // Minimum log level. Default: LevelInfo
	JSON    bool       // JSON records instead of text when writing to Output

	// File appends JSON records to this file.
	File string
	// LogDir writes one JSON file per day into this directory and prunes
	// files older than 30 days. Ignored when File is set.
	LogDir string
	// Output receives records when neither File nor LogDir is set. Default: os.Stderr
	Output io.Writer
}

// Init configures logging. Call from main() before any log calls.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) error {
	if !opts.Enabled {
		L = discard()
		return nil
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	switch {
	case opts.File != "":
		f, err := openAppend(opts.File)
		if err != nil {
			return err
		}
		L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	case opts.LogDir != "":
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return err
		}
		// Clean up old logs (best-effort, ignore errors)
		cleanOldLogs(opts.LogDir, time.Now())

		f, err := openAppend(filepath.Join(opts.LogDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix))
		if err != nil {
			return err
		}
		L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	default:
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		if opts.JSON {
			L = slog.New(slog.NewJSONHandler(out, handlerOpts))
		} else {
			L = slog.New(slog.NewTextHandler(out, handlerOpts))
		}
	}
	return nil
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// Parse date from filename: cbctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
