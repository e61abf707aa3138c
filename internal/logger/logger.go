// Package logger provides process-wide logging for helpsync.
// Messages go through a zerolog logger; debug messages are only emitted
// when verbose mode is enabled via the --verbose flag.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger.
type Options struct {
	// Level is one of debug, info, warn, error (default info).
	Level string

	// Format is auto, console or json. Auto selects console output when
	// writing to a terminal and JSON otherwise.
	Format string

	// File, when set, sends output to a size-rotated log file.
	File string

	// Writer overrides the output destination. Ignored when File is set.
	Writer io.Writer
}

var (
	mu      sync.RWMutex
	verbose bool
	level   = zerolog.InfoLevel
	format  = "auto"
	output  io.Writer = os.Stderr
	log     = build()
)

// Init configures level, format and destination in one step.
func Init(opt Options) {
	mu.Lock()
	defer mu.Unlock()

	level = parseLevel(opt.Level)
	if opt.Format != "" {
		format = strings.ToLower(opt.Format)
	}
	switch {
	case opt.File != "":
		output = &lumberjack.Logger{
			Filename:   opt.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		}
	case opt.Writer != nil:
		output = opt.Writer
	}
	verbose = level <= zerolog.DebugLevel
	log = build()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level = zerolog.DebugLevel
	} else if level == zerolog.DebugLevel {
		level = zerolog.InfoLevel
	}
	log = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build()
}

// L returns the underlying logger for structured fields.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Msgf(format, args...)
}

// Section logs a section marker if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug().Str("section", name).Msg("=== " + name + " ===")
}

// Info logs an informational message.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info().Msgf(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn().Msgf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error().Msgf(format, args...)
}

// build creates the zerolog logger from the current settings (caller must hold lock).
func build() zerolog.Logger {
	w := output
	if useConsole(w) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func useConsole(w io.Writer) bool {
	switch format {
	case "console":
		return true
	case "json":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
