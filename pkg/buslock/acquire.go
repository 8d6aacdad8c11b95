package buslock

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/displayctl/displayctl/internal/procinfo"
	"github.com/displayctl/displayctl/pkg/logging"
)

// Acquire takes an exclusive advisory lock on an already-opened I²C device
// descriptor. filename is a diagnostic label only. With wait set, the call
// polls the non-blocking lock syscall until it succeeds or the configured
// wait budget is exhausted; without it, exactly one attempt is made.
//
// On StatusOK the kernel holds an exclusive advisory lock on the inode of
// fd, attributable to this process in /proc/locks. On StatusContended no
// lock is held and a diagnostic report has been emitted. A negative status
// is the negated kernel errno; no lock is held.
//
// Calling Acquire for a descriptor already in the held state is a contract
// violation: it panics when Config.Debug is set and fails with EBUSY
// otherwise.
func (m *Manager) Acquire(fd int, filename string, wait bool) Status {
	cfg := GetConfig()

	if !cfg.CrossInstanceEnabled {
		// Bookkeeping still happens so release stays symmetric, but the
		// kernel is never touched; even checking descriptor validity
		// would be a kernel call.
		rec, prev := m.reg.begin(fd, filename, nil)
		if prev != nil {
			m.contractViolation(cfg, "Acquire called for fd %d (%s) while already %s", fd, filename, prev.State())
			return errnoStatus(unix.EBUSY)
		}
		rec.attempts = 1
		rec.setState(StateHeld)
		return StatusOK
	}

	rec, prev := m.reg.begin(fd, filename, m.fdValid)
	if prev != nil {
		m.contractViolation(cfg, "Acquire called for fd %d (%s) while already %s", fd, filename, prev.State())
		return errnoStatus(unix.EBUSY)
	}
	rec.firstAttemptNanos = m.clock.Monotonic()
	if ino, err := procinfo.InodeOfFd(fd); err == nil {
		rec.setInode(ino)
	}

	maxWaitMillis := 0
	if wait {
		maxWaitMillis = cfg.MaxWaitMillis
	}
	// The budget is the integer sum of sleep intervals, not a clock
	// difference, so behavior is deterministic under clock jumps. The
	// monotonic reading above exists only for diagnostic timestamps.
	waitedMillis := 0

	for {
		rec.attempts++
		m.stats.RecordFlockCall()
		err := m.flockFn(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			rec.setState(StateHeld)
			rec.kernel = true
			m.stats.RecordAcquisition(time.Duration(waitedMillis) * time.Millisecond)
			if rec.attempts > 1 {
				m.log.Infof("flock succeeded for %s after %d calls", filename, rec.attempts)
			} else if cfg.Debug {
				m.log.Debugf("flock succeeded for %s", filename)
			}
			return StatusOK
		}

		switch errno := asErrno(err); errno {
		case unix.EINTR:
			// Interrupted syscalls restart without consuming a budget tick.
			continue

		case unix.EWOULDBLOCK:
			if waitedMillis >= maxWaitMillis {
				rec.setState(StateContended)
				m.stats.RecordContention(time.Duration(waitedMillis) * time.Millisecond)
				m.reportContention(fd, filename, rec, waitedMillis)
				return StatusContended
			}
			if rec.attempts == 1 {
				m.emitter.Emitf(logging.SeverityNotice, "%s locked. Retrying...", filename)
			}
			m.runProbe(fd, filename)
			sleepStart := m.clock.Monotonic()
			m.clock.SleepMillis(cfg.PollIntervalMillis)
			m.stats.RecordSleep(cfg.PollIntervalMillis,
				time.Duration(m.clock.Monotonic()-sleepStart))
			waitedMillis += cfg.PollIntervalMillis

		default:
			rec.setState(StateFailed)
			m.stats.RecordFailure()
			m.log.Errorf("unexpected error from flock for %s: %v", filename, err)
			return errnoStatus(errno)
		}
	}
}

// reportContention emits the once-per-call contention diagnostic: the
// contended file, the poll count, the processes holding the kernel lock,
// and a shallow backtrace.
func (m *Manager) reportContention(fd int, filename string, rec *LockRecord, waitedMillis int) {
	// Monotonic elapsed time is reported for the reader; the budget itself
	// was the interval sum.
	elapsed := time.Duration(m.clock.Monotonic() - rec.firstAttemptNanos)
	m.emitter.Emitf(logging.SeverityInfo,
		"Max wait exceeded for %s after %d flock calls (budget %d ms, elapsed %s)",
		filename, rec.attempts, waitedMillis, elapsed)
	report := procinfo.NewReportForFd(fd, filename)
	m.emitter.EmitLines(logging.SeverityInfo, report.Lines())
	m.emitter.EmitBacktrace(logging.SeverityInfo, 1)
}

// runProbe invokes the registered EDID sideband probe, if any, once per
// poll iteration. Its only effect is a log line distinguishing "peer is
// alive and talking" from "device asleep, holder stuck".
func (m *Manager) runProbe(fd int, filename string) {
	m.probeMu.RLock()
	probe := m.probe
	m.probeMu.RUnlock()
	if probe == nil {
		return
	}
	err := probe(fd)
	m.stats.RecordProbe(err != nil)
	if err != nil {
		m.log.Debugf("edid probe failed for %s: %v", filename, err)
	} else {
		m.log.Debugf("edid probe ok for %s, device responsive", filename)
	}
}
