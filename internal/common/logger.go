package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Fields are structured key/value pairs attached to a log record.
type Fields map[string]any

var levels = map[string]slog.Level{
	"":      slog.LevelInfo,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps debug, info, warn or error to a slog.Level. An empty
// string means info.
func ParseLevel(level string) (slog.Level, error) {
	l, ok := levels[strings.ToLower(level)]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfig, level)
	}
	return l, nil
}

// SetupLogger installs the process-wide slog logger. format is "console"
// (key=value text) or "json"; w defaults to stderr.
func SetupLogger(w io.Writer, level slog.Level, format string) error {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "", "console":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return fmt.Errorf("%w: invalid log format: %s", ErrInvalidConfig, format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// LogError logs msg at error level with err and fields attached.
func LogError(err error, msg string, fields Fields) {
	emit(slog.LevelError, msg, fields, slog.String("error", err.Error()))
}

// LogInfo logs msg at info level.
func LogInfo(msg string, fields Fields) {
	emit(slog.LevelInfo, msg, fields)
}

// LogDebug logs msg at debug level.
func LogDebug(msg string, fields Fields) {
	emit(slog.LevelDebug, msg, fields)
}

func emit(level slog.Level, msg string, fields Fields, extra ...slog.Attr) {
	attrs := append(make([]slog.Attr, 0, len(fields)+len(extra)), extra...)
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	slog.LogAttrs(context.Background(), level, msg, attrs...)
}
