package buslock

import "golang.org/x/sys/unix"

// Release drops the advisory lock previously taken by a successful Acquire
// for fd. The registry entry is cleared in all cases, including kernel
// unlock failures, so stale bookkeeping can never starve later acquires.
// Kernel errors are logged at debug level and returned as negated errno.
//
// Calling Release without a prior successful Acquire is a contract
// violation: it panics when Config.Debug is set and is a warning no-op
// otherwise.
func (m *Manager) Release(fd int) Status {
	cfg := GetConfig()

	rec, ok := m.reg.take(fd)
	if !ok {
		m.contractViolation(cfg, "Release called for fd %d with no outstanding lock", fd)
		return errnoStatus(unix.EBADF)
	}

	if !rec.kernel {
		// Acquired while the subsystem was disabled; nothing to undo in
		// the kernel.
		rec.setState(StateIdle)
		m.stats.RecordRelease()
		return StatusOK
	}

	err := m.flockFn(fd, unix.LOCK_UN)
	rec.setState(StateIdle)
	if err != nil {
		m.log.Debugf("flock unlock failed for fd %d (%s): %v", fd, rec.filename, err)
		return errnoStatus(asErrno(err))
	}
	m.stats.RecordRelease()
	return StatusOK
}
