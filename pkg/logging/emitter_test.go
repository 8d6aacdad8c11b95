package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_DualDestination(t *testing.T) {
	var stream bytes.Buffer
	logger := newLoggerTo("test", &stream)
	capture := NewCaptureSink()
	sys := NewCaptureSink() // stands in for the syslog connection

	e := NewEmitter(logger, sys)
	e.SetCapture(capture)

	e.Emitf(SeverityInfo, "bus %s locked by pid %d", "/dev/i2c-4", 1234)

	assert.Contains(t, stream.String(), "/dev/i2c-4")
	assert.Contains(t, stream.String(), "component=test")

	require.Len(t, sys.Lines(), 1)
	assert.Equal(t, SeverityInfo, sys.Lines()[0].Severity)
	assert.Equal(t, "bus /dev/i2c-4 locked by pid 1234", sys.Lines()[0].Text)

	require.Len(t, capture.Lines(), 1)
	assert.Equal(t, capture.Lines()[0], sys.Lines()[0])
}

func TestEmitter_EmitLinesPreservesOrder(t *testing.T) {
	capture := NewCaptureSink()
	e := NewEmitter(nil, capture)

	e.EmitLines(SeverityWarning, []string{"first", "second", "third"})

	lines := capture.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "first", lines[0].Text)
	assert.Equal(t, "second", lines[1].Text)
	assert.Equal(t, "third", lines[2].Text)
	for _, l := range lines {
		assert.Equal(t, SeverityWarning, l.Severity)
	}
}

func TestEmitter_NilSinksAreSafe(t *testing.T) {
	e := NewEmitter(nil, nil)
	assert.NotPanics(t, func() {
		e.Emitf(SeverityError, "orphan line")
		e.EmitBacktrace(SeverityError, 0)
	})
}

func TestEmitter_EmitBacktrace(t *testing.T) {
	capture := NewCaptureSink()
	e := NewEmitter(nil, capture)

	e.EmitBacktrace(SeverityInfo, 0)

	lines := capture.Lines()
	require.NotEmpty(t, lines)
	// The captured stack starts at this test function.
	assert.Contains(t, lines[0].Text, "TestEmitter_EmitBacktrace")
}

func TestBacktrace_ExcludesRuntimeFrames(t *testing.T) {
	t.Parallel()
	for _, line := range Backtrace(0) {
		assert.NotContains(t, strings.TrimSpace(line), "runtime.gopanic")
	}
}

func TestCaptureSink_TextAndReset(t *testing.T) {
	t.Parallel()
	c := NewCaptureSink()
	c.Emit(SeverityNotice, "held")
	assert.Contains(t, c.Text(), "NOTICE held")

	c.Reset()
	assert.Empty(t, c.Lines())
	assert.Empty(t, c.Text())
}

func TestSeverity_Mappings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "NOTICE", SeverityNotice.String())
	assert.Equal(t, "ERROR", SeverityError.String())
	// Notice folds into info on the stream log but stays distinct for syslog.
	assert.Equal(t, SeverityInfo.slogLevel(), SeverityNotice.slogLevel())
	assert.NotEqual(t, SeverityInfo.syslogPriority(), SeverityNotice.syslogPriority())
}
