// Package procinfo inspects kernel advisory-lock state through procfs.
//
// It answers one question for the bus lock manager: which processes
// currently hold a kernel lock on a given inode. Everything here is
// best-effort diagnostics; a process may exit between reading /proc/locks
// and reading its status file, so unreadable sources produce placeholder
// entries rather than errors.
package procinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// procRoot is overridable for tests.
var procRoot = "/proc"

// LockLine is one parsed line of /proc/locks.
type LockLine struct {
	ID     int
	Type   string // FLOCK, POSIX, OFDLCK
	Class  string // ADVISORY or MANDATORY
	Mode   string // READ or WRITE
	PID    int
	Device string // hex major:minor of the containing filesystem
	Inode  uint64
}

// Entry describes one process holding a lock on the target inode.
// Fields default to "?" when the process vanished before it could be read.
type Entry struct {
	PID         int
	ProcessName string
	State       string
	Inode       uint64
	Device      string
}

// InodeOfPath resolves the inode of a filesystem path.
func InodeOfPath(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return st.Ino, nil
}

// InodeOfFd resolves the inode of an open file descriptor.
func InodeOfFd(fd int) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return 0, fmt.Errorf("fstat fd %d: %w", fd, err)
	}
	return st.Ino, nil
}

// DeviceOfFd returns the containing filesystem's device number for fd,
// formatted the way /proc/locks prints it (hex major:minor).
func DeviceOfFd(fd int) (string, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return "", fmt.Errorf("fstat fd %d: %w", fd, err)
	}
	return formatDev(st.Dev), nil
}

// DeviceOfPath is the path variant of DeviceOfFd.
func DeviceOfPath(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return formatDev(st.Dev), nil
}

func formatDev(dev uint64) string {
	return fmt.Sprintf("%02x:%02x", unix.Major(dev), unix.Minor(dev))
}

// ParseLockTable parses the columnar /proc/locks format:
//
//	1: FLOCK  ADVISORY  WRITE 359 fd:00:1180562 0 EOF
//
// Malformed lines are skipped.
func ParseLockTable(r io.Reader) []LockLine {
	var lines []LockLine
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// Mandatory locks insert a "-> blocking" marker; only the plain
		// 8-field form describes a held lock.
		if len(fields) < 7 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(fields[0], ":"))
		if err != nil {
			continue
		}
		pid, err := strconv.Atoi(fields[4])
		if err != nil {
			continue
		}
		dev, ino, ok := splitDevInode(fields[5])
		if !ok {
			continue
		}
		lines = append(lines, LockLine{
			ID:     id,
			Type:   fields[1],
			Class:  fields[2],
			Mode:   fields[3],
			PID:    pid,
			Device: dev,
			Inode:  ino,
		})
	}
	return lines
}

// splitDevInode splits the "maj:min:inode" triplet of /proc/locks.
func splitDevInode(s string) (dev string, inode uint64, ok bool) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return "", 0, false
	}
	inode, err := strconv.ParseUint(s[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return s[:i], inode, true
}

// ProcessesLockingInode lists processes that /proc/locks reports as holding
// a lock on the given inode. When device is non-empty, only lines on that
// filesystem device match. Errors reading /proc/locks yield an empty list;
// diagnostics never fail their caller.
func ProcessesLockingInode(inode uint64, device string) []Entry {
	f, err := os.Open(procRoot + "/locks")
	if err != nil {
		return nil
	}
	defer f.Close()

	var entries []Entry
	for _, line := range ParseLockTable(f) {
		if line.Inode != inode {
			continue
		}
		if device != "" && line.Device != device {
			continue
		}
		e := readProcessStatus(line.PID)
		e.Inode = line.Inode
		e.Device = line.Device
		entries = append(entries, e)
	}
	return entries
}

// readProcessStatus pulls Name, State and Pid from /proc/<pid>/status.
// A process that exited between the /proc/locks read and this one yields
// placeholder fields; the diagnostic report is still useful without them.
func readProcessStatus(pid int) Entry {
	e := Entry{PID: pid, ProcessName: "?", State: "?"}
	f, err := os.Open(fmt.Sprintf("%s/%d/status", procRoot, pid))
	if err != nil {
		return e
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Name":
			e.ProcessName = value
		case "State":
			e.State = value
		case "Pid":
			if n, err := strconv.Atoi(value); err == nil {
				e.PID = n
			}
		}
	}
	return e
}
