// Package log is the process-wide logger. The commands use the printf
// helpers; the connection server takes a logr.Logger from Logger. Both
// write through slog.Default, so one call to Init configures everything.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-logr/logr"
)

type Level = slog.Level

const (
	DebugLevel = slog.LevelDebug
	InfoLevel  = slog.LevelInfo
	WarnLevel  = slog.LevelWarn
	ErrorLevel = slog.LevelError
)

func init() {
	Init(InfoLevel, false, os.Stderr)
}

// Init sends records at or above level to w, as logfmt text or as one
// JSON object per line.
func Init(level Level, json bool, w io.Writer) {
	opts := &slog.HandlerOptions{
		AddSource:   true,
		Level:       level,
		ReplaceAttr: baseSource,
	}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if json {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}

// baseSource shortens source=/abs/path/file.go:N to source=file.go:N.
func baseSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	if src, ok := a.Value.Any().(*slog.Source); ok {
		src.File = filepath.Base(src.File)
	}
	return a
}

// ParseLevel accepts the slog level names (debug, info, warn, error) in
// any case.
func ParseLevel(s string) (Level, error) {
	var l Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Logger adapts the current default handler for code that carries
// key/value context, such as the per-connection loggers of the server.
func Logger() logr.Logger {
	return logr.FromSlogHandler(slog.Default().Handler())
}

// emit formats and writes one record, attributing it to the caller of the
// exported helper that called emit.
func emit(level Level, format string, args []any) {
	ctx := context.Background()
	l := slog.Default()
	if !l.Enabled(ctx, level) {
		return
	}
	var pc [1]uintptr
	runtime.Callers(3, pc[:])
	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pc[0])
	_ = l.Handler().Handle(ctx, r)
}

func Debugf(format string, args ...any) { emit(DebugLevel, format, args) }
func Infof(format string, args ...any)  { emit(InfoLevel, format, args) }
func Warnf(format string, args ...any)  { emit(WarnLevel, format, args) }
func Errorf(format string, args ...any) { emit(ErrorLevel, format, args) }

// Fatalf logs at error level and exits with status 1.
func Fatalf(format string, args ...any) {
	emit(ErrorLevel, format, args)
	os.Exit(1)
}
