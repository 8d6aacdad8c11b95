package buslock

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Status is the signed outcome of a lock operation: zero means the lock
// was acquired, StatusContended means the wait budget was exhausted, and a
// negative value is the negated kernel errno.
type Status int

const (
	// StatusOK means the advisory lock is held by this process.
	StatusOK Status = 0
	// StatusContended means no lock is held and the maximum wait budget
	// was exceeded.
	StatusContended Status = 1
)

// Acquired reports whether the operation succeeded.
func (s Status) Acquired() bool { return s == StatusOK }

// Contended reports whether the operation gave up after exhausting its
// wait budget.
func (s Status) Contended() bool { return s == StatusContended }

// Errno returns the kernel errno carried by a negative status, or zero.
func (s Status) Errno() syscall.Errno {
	if s >= 0 {
		return 0
	}
	return syscall.Errno(-s)
}

// String returns a human-readable rendering of the status.
func (s Status) String() string {
	switch {
	case s == StatusOK:
		return "acquired"
	case s == StatusContended:
		return "contended"
	case s < 0:
		return fmt.Sprintf("errno %d (%s)", -s, unix.ErrnoName(syscall.Errno(-s)))
	default:
		return fmt.Sprintf("status %d", int(s))
	}
}

// errnoStatus converts a kernel errno to the negative status convention.
func errnoStatus(errno syscall.Errno) Status {
	return Status(-int(errno))
}

// asErrno extracts the errno from a syscall error, defaulting to EIO for
// anything that is not errno-shaped.
func asErrno(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return unix.EIO
}
