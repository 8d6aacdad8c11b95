package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSyslogWriter records lines and can be told to start failing at a
// given call.
type fakeSyslogWriter struct {
	lines  []string
	failAt int // 1-based call index that starts failing; 0 never fails
	calls  int
	closed bool
}

func (f *fakeSyslogWriter) emit(line string) error {
	f.calls++
	if f.failAt != 0 && f.calls >= f.failAt {
		return errors.New("connection reset")
	}
	f.lines = append(f.lines, line)
	return nil
}

func (f *fakeSyslogWriter) Debug(m string) error   { return f.emit(m) }
func (f *fakeSyslogWriter) Notice(m string) error  { return f.emit(m) }
func (f *fakeSyslogWriter) Warning(m string) error { return f.emit(m) }
func (f *fakeSyslogWriter) Err(m string) error     { return f.emit(m) }
func (f *fakeSyslogWriter) Info(m string) error    { return f.emit(m) }
func (f *fakeSyslogWriter) Close() error           { f.closed = true; return nil }

func TestSyslogSink_ConnectsLazilyAndWrites(t *testing.T) {
	t.Parallel()

	fake := &fakeSyslogWriter{}
	var connects int
	s := NewSyslogSink("displayctl")
	s.connect = func(string) (syslogWriter, error) {
		connects++
		return fake, nil
	}

	s.Emit(SeverityInfo, "one")
	s.Emit(SeverityWarning, "two")

	assert.Equal(t, 1, connects)
	require.Equal(t, []string{"one", "two"}, fake.lines)
}

func TestSyslogSink_WriteFailureDropsConnection(t *testing.T) {
	t.Parallel()

	fake := &fakeSyslogWriter{failAt: 2}
	s := NewSyslogSink("displayctl")
	s.connect = func(string) (syslogWriter, error) { return fake, nil }

	s.Emit(SeverityInfo, "one")
	s.Emit(SeverityInfo, "two")   // fails, connection dropped
	s.Emit(SeverityInfo, "three") // not retried

	assert.Equal(t, 2, fake.calls)
	assert.True(t, fake.closed)
	assert.Equal(t, []string{"one"}, fake.lines)
}

func TestSyslogSink_ConnectFailureIsSilentAndFinal(t *testing.T) {
	t.Parallel()

	var attempts int
	s := NewSyslogSink("displayctl")
	s.connect = func(string) (syslogWriter, error) {
		attempts++
		return nil, errors.New("no daemon")
	}

	s.Emit(SeverityInfo, "one")
	s.Emit(SeverityInfo, "two")
	assert.Equal(t, 1, attempts)
}
