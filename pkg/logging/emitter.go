package logging

import (
	"fmt"
	"runtime"
	"strings"
)

// backtraceDepth bounds the shallow stack captured with each contention
// report.
const backtraceDepth = 16

// Emitter routes diagnostic output to two destinations at once: the
// component's stream log and a syslog-equivalent sink. An optional capture
// sink records every line for tests. Emission is synchronous so crash-grade
// context survives even if the process exits moments later.
type Emitter struct {
	logger  *Logger
	syslog  Sink
	capture Sink
}

// NewEmitter creates a dual-destination emitter. syslog may be nil, in
// which case lines go to the stream log only.
func NewEmitter(logger *Logger, syslog Sink) *Emitter {
	return &Emitter{logger: logger, syslog: syslog}
}

// SetCapture attaches (or detaches, with nil) a capture sink.
func (e *Emitter) SetCapture(c Sink) {
	e.capture = c
}

// Emitf formats and emits a single line to all destinations.
func (e *Emitter) Emitf(sev Severity, format string, args ...interface{}) {
	e.emitLine(sev, fmt.Sprintf(format, args...))
}

// EmitLines emits multiple pre-formatted lines in order.
func (e *Emitter) EmitLines(sev Severity, lines []string) {
	for _, line := range lines {
		e.emitLine(sev, line)
	}
}

// EmitBacktrace captures a shallow backtrace of the calling goroutine and
// emits it, skipping the given number of frames above this function.
func (e *Emitter) EmitBacktrace(sev Severity, skip int) {
	for _, line := range Backtrace(skip + 1) {
		e.emitLine(sev, line)
	}
}

func (e *Emitter) emitLine(sev Severity, line string) {
	if e.logger != nil {
		e.logger.log(sev, line)
	}
	if e.syslog != nil {
		e.syslog.Emit(sev, line)
	}
	if e.capture != nil {
		e.capture.Emit(sev, line)
	}
}

// Backtrace returns a shallow formatted stack of the calling goroutine,
// one frame per line, most recent call first. skip counts frames above the
// caller to omit.
func Backtrace(skip int) []string {
	pc := make([]uintptr, backtraceDepth)
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc[:n])
	var lines []string
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, "runtime.") {
			lines = append(lines, fmt.Sprintf("   %s (%s:%d)", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return lines
}
