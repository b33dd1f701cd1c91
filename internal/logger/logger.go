// Package logger provides verbose logging for chpl.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace the corpus pipeline. Standard output
// is reserved for result lines.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	out   = zapcore.Lock(zapcore.AddSync(os.Stderr))
	sugar = newSugar(out, level)
)

// newSugar builds a console logger that writes "[LEVEL] message" lines.
func newSugar(ws zapcore.WriteSyncer, lvl zap.AtomicLevel) *zap.SugaredLogger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeLevel: func(l zapcore.Level, arr zapcore.PrimitiveArrayEncoder) {
			arr.AppendString("[" + l.CapitalString() + "]")
		},
	})
	return zap.New(zapcore.NewCore(enc, ws, lvl)).Sugar()
}

// SetVerbose enables or disables verbose logging.
// Errors are printed either way.
func SetVerbose(v bool) {
	if v {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.ErrorLevel)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	return level.Enabled(zapcore.DebugLevel)
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = zapcore.Lock(zapcore.AddSync(w))
	sugar = newSugar(out, level)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) { logf(zapcore.DebugLevel, format, args...) }

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) { logf(zapcore.InfoLevel, format, args...) }

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) { logf(zapcore.WarnLevel, format, args...) }

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) { logf(zapcore.ErrorLevel, format, args...) }

// Elapsed prints how long a stage took if verbose mode is enabled.
// Use as: defer logger.Elapsed("embed corpus", time.Now()).
func Elapsed(stage string, start time.Time) {
	logf(zapcore.DebugLevel, "%s took %s", stage, time.Since(start).Round(time.Millisecond))
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	if !IsVerbose() {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	_, _ = fmt.Fprintf(out, "\n=== %s ===\n", name)
}

func logf(lvl zapcore.Level, format string, args ...any) {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	s.Logf(lvl, format, args...)
}
