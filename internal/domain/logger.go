package domain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// StructuredLogger writes JSON log lines with a fixed key layout
// (timestamp, level, message, error) plus free-form context fields.
// A nil *StructuredLogger discards everything.
type StructuredLogger struct {
	logger *slog.Logger
}

// NewStructuredLogger creates a logger writing to w at the given minimum level.
// The stdio transport owns stdout, so callers pass stderr here.
func NewStructuredLogger(w io.Writer, level slog.Level) *StructuredLogger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				return slog.String("timestamp", a.Value.Time().UTC().Format(time.RFC3339))
			case slog.MessageKey:
				a.Key = "message"
			}
			return a
		},
	}

	return &StructuredLogger{
		logger: slog.New(slog.NewJSONHandler(w, opts)),
	}
}

// NewNopLogger returns a logger that drops all entries.
func NewNopLogger() *StructuredLogger {
	return NewStructuredLogger(io.Discard, slog.LevelError)
}

// ParseLogLevel converts a configuration level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be debug, info, warn or error", s)
	}
}

// LogDebug logs a debug message with context.
func (l *StructuredLogger) LogDebug(message string, context map[string]interface{}) {
	l.log(slog.LevelDebug, message, nil, context)
}

// LogInfo logs an informational message with context.
func (l *StructuredLogger) LogInfo(message string, context map[string]interface{}) {
	l.log(slog.LevelInfo, message, nil, context)
}

// LogWarn logs a warning with context.
func (l *StructuredLogger) LogWarn(message string, context map[string]interface{}) {
	l.log(slog.LevelWarn, message, nil, context)
}

// LogError logs an error message with context.
func (l *StructuredLogger) LogError(message string, err error, context map[string]interface{}) {
	l.log(slog.LevelError, message, err, context)
}

func (l *StructuredLogger) log(level slog.Level, message string, err error, fields map[string]interface{}) {
	if l == nil || !l.logger.Enabled(context.Background(), level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(fields)+1)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}

	l.logger.LogAttrs(context.Background(), level, message, attrs...)
}
