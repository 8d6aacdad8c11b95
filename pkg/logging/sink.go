package logging

import (
	"fmt"
	"log/syslog"
	"sync"
)

// Sink receives severity-tagged lines. The syslog connection and the test
// capture buffer both implement it.
type Sink interface {
	Emit(sev Severity, line string)
}

// syslogWriter is the subset of *syslog.Writer the sink uses; tests
// substitute a fake.
type syslogWriter interface {
	Debug(m string) error
	Notice(m string) error
	Warning(m string) error
	Err(m string) error
	Info(m string) error
	Close() error
}

// SyslogSink forwards lines to the local syslog daemon. The connection is
// opened lazily on first use. If the daemon is unreachable, or a write
// fails, emission stops for good; diagnostics must never fail the lock
// path.
type SyslogSink struct {
	mu      sync.Mutex
	tag     string
	writer  syslogWriter
	failed  bool
	connect func(tag string) (syslogWriter, error)
}

// NewSyslogSink creates a sink that logs under the given syslog tag.
func NewSyslogSink(tag string) *SyslogSink {
	return &SyslogSink{
		tag: tag,
		connect: func(tag string) (syslogWriter, error) {
			return syslog.New(syslog.LOG_USER|syslog.LOG_INFO, tag)
		},
	}
}

// Emit writes one line to syslog at the priority matching sev.
func (s *SyslogSink) Emit(sev Severity, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failed {
		return
	}
	if s.writer == nil {
		w, err := s.connect(s.tag)
		if err != nil {
			s.failed = true
			return
		}
		s.writer = w
	}

	var err error
	switch sev.syslogPriority() {
	case syslog.LOG_DEBUG:
		err = s.writer.Debug(line)
	case syslog.LOG_NOTICE:
		err = s.writer.Notice(line)
	case syslog.LOG_WARNING:
		err = s.writer.Warning(line)
	case syslog.LOG_ERR:
		err = s.writer.Err(line)
	default:
		err = s.writer.Info(line)
	}
	if err != nil {
		// The daemon went away mid-stream; drop the dead connection
		// instead of retrying it on every line.
		s.failed = true
		_ = s.writer.Close()
		s.writer = nil
	}
}

// Close releases the syslog connection.
func (s *SyslogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return nil
	}
	err := s.writer.Close()
	s.writer = nil
	return err
}

// CaptureLine is one captured emission.
type CaptureLine struct {
	Severity Severity
	Text     string
}

// CaptureSink accumulates emitted lines in memory so tests can assert on
// diagnostic output.
type CaptureSink struct {
	mu    sync.Mutex
	lines []CaptureLine
}

// NewCaptureSink creates an empty capture buffer.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

// Emit records the line.
func (c *CaptureSink) Emit(sev Severity, line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, CaptureLine{Severity: sev, Text: line})
}

// Lines returns a copy of everything captured so far.
func (c *CaptureSink) Lines() []CaptureLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CaptureLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Text returns the captured lines joined for substring assertions.
func (c *CaptureSink) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out string
	for _, l := range c.lines {
		out += fmt.Sprintf("%s %s\n", l.Severity, l.Text)
	}
	return out
}

// Reset discards all captured lines.
func (c *CaptureSink) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}
