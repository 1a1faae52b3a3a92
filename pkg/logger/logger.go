package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the structured logger every component is written against.
// Key/value pairs follow the slog convention: "key", value, "key", value.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Error(msg string, kv ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
	With(kv ...any) Logger
}

type slogLogger struct {
	handler *slog.Logger
}

// NewLogger returns a JSON logger writing to stdout at the given level.
// Unknown levels fall back to info.
func NewLogger(level string) Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo is NewLogger with an explicit writer.
func NewLoggerTo(w io.Writer, level string) Logger {
	hostname, _ := os.Hostname()
	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	return &slogLogger{handler: handler.With("hostname", hostname)}
}

// ParseLevel maps a textual level to its slog equivalent.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *slogLogger) Debug(msg string, kv ...any) {
	l.handler.Log(context.Background(), slog.LevelDebug, msg, kv...)
}

func (l *slogLogger) Info(msg string, kv ...any) {
	l.handler.Log(context.Background(), slog.LevelInfo, msg, kv...)
}

func (l *slogLogger) Error(msg string, kv ...any) {
	l.handler.Log(context.Background(), slog.LevelError, msg, kv...)
}

func (l *slogLogger) Debugf(format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *slogLogger) With(kv ...any) Logger {
	return &slogLogger{handler: l.handler.With(kv...)}
}

type noopLogger struct{}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any)  {}
func (noopLogger) Info(string, ...any)   {}
func (noopLogger) Error(string, ...any)  {}
func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
func (n noopLogger) With(...any) Logger  { return n }
