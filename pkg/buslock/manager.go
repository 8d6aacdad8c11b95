// Package buslock serializes access to monitor I²C devices across
// processes. It wraps the kernel's advisory flock facility in a bounded
// polling loop: at most one cooperating process communicates with a given
// adapter at a time, and when contention cannot be resolved within the
// wait budget the manager reports which processes hold the kernel lock.
//
// The lock is advisory: non-cooperating processes can still perform I/O on
// the device.
package buslock

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/displayctl/displayctl/internal/clock"
	"github.com/displayctl/displayctl/internal/metrics"
	"github.com/displayctl/displayctl/pkg/logging"
)

// ProbeFunc is the optional EDID sideband probe invoked while polling a
// contended lock. A nil error means the monitor answered. The result is
// diagnostic only; it never changes the acquisition outcome.
type ProbeFunc func(fd int) error

// Manager owns the lock registry and the acquisition state machine. All
// methods are safe for concurrent use; each Acquire blocks its calling
// goroutine until the outcome is decided.
type Manager struct {
	clock   clock.Clock
	log     *logging.Logger
	emitter *logging.Emitter
	stats   *metrics.Collector
	reg     *registry

	probeMu sync.RWMutex
	probe   ProbeFunc

	// syscall seams, replaceable in tests
	flockFn func(fd, how int) error
	fdValid func(fd int) bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the manager's clock.
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger replaces the manager's stream logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithEmitter replaces the dual-destination diagnostic emitter.
func WithEmitter(e *logging.Emitter) Option {
	return func(m *Manager) { m.emitter = e }
}

// WithCollector replaces the statistics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(m *Manager) { m.stats = c }
}

// NewManager creates a bus lock manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		clock:   clock.NewReal(),
		log:     logging.Lock,
		stats:   metrics.NewCollector(),
		reg:     newRegistry(),
		flockFn: func(fd, how int) error { return unix.Flock(fd, how) },
		fdValid: fdIsOpen,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.emitter == nil {
		m.emitter = logging.NewEmitter(m.log, logging.NewSyslogSink("displayctl"))
	}
	return m
}

// RegisterProbe registers (or, with nil, clears) the EDID sideband probe.
func (m *Manager) RegisterProbe(p ProbeFunc) {
	m.probeMu.Lock()
	m.probe = p
	m.probeMu.Unlock()
}

// Stats returns a snapshot of the manager's statistics.
func (m *Manager) Stats() metrics.Stats {
	return m.stats.Snapshot()
}

// Emitter returns the manager's diagnostic emitter, so callers can attach
// a capture sink.
func (m *Manager) Emitter() *logging.Emitter {
	return m.emitter
}

// contractViolation panics in debug builds and warns otherwise.
func (m *Manager) contractViolation(cfg Config, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if cfg.Debug {
		panic("buslock: " + msg)
	}
	m.log.Warnf("%s", msg)
}

// fdIsOpen reports whether fd refers to an open descriptor.
func fdIsOpen(fd int) bool {
	_, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	return err == nil
}

// defaultManager serves the package-level convenience API.
var defaultManager = NewManager()

// Acquire takes the exclusive advisory lock for fd through the default
// manager. See Manager.Acquire.
func Acquire(fd int, filename string, wait bool) Status {
	return defaultManager.Acquire(fd, filename, wait)
}

// Release drops the advisory lock for fd through the default manager. See
// Manager.Release.
func Release(fd int) Status {
	return defaultManager.Release(fd)
}

// RegisterProbe registers the EDID sideband probe on the default manager.
func RegisterProbe(p ProbeFunc) {
	defaultManager.RegisterProbe(p)
}

// Stats returns the default manager's statistics snapshot.
func Stats() metrics.Stats {
	return defaultManager.Stats()
}
