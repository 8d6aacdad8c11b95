// Package logging provides structured logging for displayctl, plus the
// dual-destination diagnostic emitter used when bus lock contention cannot
// be resolved: every diagnostic line goes to the process stream log and to
// syslog, and optionally into an in-memory capture buffer for tests.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger provides structured logging for one component.
type Logger struct {
	component string
	logger    *slog.Logger
}

// NewLogger creates a new logger for a specific component.
func NewLogger(component string) *Logger {
	return &Logger{
		component: component,
		logger:    slog.New(createHandler(os.Stderr)),
	}
}

// newLoggerTo is the test hook: same handler configuration, caller-chosen
// output.
func newLoggerTo(component string, w io.Writer) *Logger {
	return &Logger{
		component: component,
		logger:    slog.New(createHandler(w)),
	}
}

// createHandler creates an appropriate slog handler based on environment variables.
func createHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: getLogLevel(), ReplaceAttr: replaceAttr}

	format := strings.ToUpper(os.Getenv("DISPLAYCTL_LOG_FORMAT"))
	if format == "JSON" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// getLogLevel determines the current log level from environment.
func getLogLevel() slog.Level {
	switch strings.ToUpper(os.Getenv("DISPLAYCTL_LOG_LEVEL")) {
	case "TRACE", "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// replaceAttr customizes attribute names and values.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			return slog.Attr{Key: a.Key, Value: slog.StringValue(level.String())}
		}
	}
	return a
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", l.component)
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...), "component", l.component)
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", l.component)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", l.component)
}

// IsDebugEnabled returns true if debug logging is enabled.
func (l *Logger) IsDebugEnabled() bool {
	return l.logger.Enabled(context.Background(), slog.LevelDebug)
}

// log routes a severity-tagged message through the slog backend.
func (l *Logger) log(sev Severity, msg string) {
	l.logger.Log(context.Background(), sev.slogLevel(), msg, "component", l.component)
}
