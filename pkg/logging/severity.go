package logging

import (
	"log/slog"
	"log/syslog"
)

// Severity tags a diagnostic line for routing to both destinations.
// Notice exists because syslog distinguishes it from info; the stream log
// folds it into info.
type Severity int

// Severity levels, lowest to highest.
const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityNotice
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityNotice:
		return "NOTICE"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// slogLevel maps a severity onto the stream log's level scale.
func (s Severity) slogLevel() slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityInfo, SeverityNotice:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// syslogPriority maps a severity onto syslog's priority scale.
func (s Severity) syslogPriority() syslog.Priority {
	switch s {
	case SeverityDebug:
		return syslog.LOG_DEBUG
	case SeverityInfo:
		return syslog.LOG_INFO
	case SeverityNotice:
		return syslog.LOG_NOTICE
	case SeverityWarning:
		return syslog.LOG_WARNING
	case SeverityError:
		return syslog.LOG_ERR
	default:
		return syslog.LOG_INFO
	}
}
