// Package logging provides leveled logging and day tracing for corpsim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A DayTrace for structured JSONL tick records (~/.corpsim/days.jsonl)
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// LevelTrace is a custom slog level below Debug for per-tick logging.
// At this level every simulated day is logged with its full report.
const LevelTrace = slog.LevelDebug - 4

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// ValidFormat reports whether format names a log output format. Empty
// selects text.
func ValidFormat(format string) bool {
	switch format {
	case "", FormatText, FormatJSON:
		return true
	}
	return false
}

// NewLogger creates a leveled slog.Logger writing to w in the given format.
// The json format suits agents that parse stderr, such as MCP hosts.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: labelTrace,
	}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func labelTrace(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// Discard returns a logger that drops everything. Components use it when
// no logger is supplied.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Trace logs msg at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}
