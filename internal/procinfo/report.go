package procinfo

import (
	"fmt"

	"github.com/hashicorp/go-uuid"
)

// Report is the contention diagnostic assembled when lock acquisition
// fails. It lives only within a single failed-acquire scope.
type Report struct {
	// ID correlates the report's log lines across the stream and syslog
	// destinations.
	ID         string
	TargetPath string
	Device     string
	Inode      uint64
	Holders    []Entry
}

// NewReport builds a contention report for the file at path. Inode and
// device resolution failures leave the corresponding sections empty.
func NewReport(path string) *Report {
	r := &Report{TargetPath: path}
	if id, err := uuid.GenerateUUID(); err == nil {
		r.ID = id
	}
	inode, err := InodeOfPath(path)
	if err != nil {
		return r
	}
	r.Inode = inode
	r.Device, _ = DeviceOfPath(path)
	r.Holders = ProcessesLockingInode(inode, r.Device)
	return r
}

// NewReportForFd builds a contention report from an already-open
// descriptor, using filename only as a label.
func NewReportForFd(fd int, filename string) *Report {
	r := &Report{TargetPath: filename}
	if id, err := uuid.GenerateUUID(); err == nil {
		r.ID = id
	}
	inode, err := InodeOfFd(fd)
	if err != nil {
		return r
	}
	r.Inode = inode
	r.Device, _ = DeviceOfFd(fd)
	r.Holders = ProcessesLockingInode(inode, r.Device)
	return r
}

// Lines renders the report as human-readable text, one line per slice
// element, ready for dual-destination emission.
func (r *Report) Lines() []string {
	lines := []string{
		fmt.Sprintf("Processes locking %s (device %s, inode %d), report %s:",
			r.TargetPath, r.Device, r.Inode, r.ID),
	}
	if len(r.Holders) == 0 {
		lines = append(lines, "   none found (lock table unreadable or holder exited)")
		return lines
	}
	for _, h := range r.Holders {
		lines = append(lines, fmt.Sprintf("   Name: %s", h.ProcessName))
		lines = append(lines, fmt.Sprintf("   State: %s", h.State))
		lines = append(lines, fmt.Sprintf("   Pid: %d", h.PID))
	}
	return lines
}
