package buslock

import (
	"sync"
	"sync/atomic"
)

// LockState is the life-cycle state of one per-descriptor lock record.
type LockState int

// Lock record states.
const (
	StateIdle LockState = iota
	StateTrying
	StateHeld
	StateFailed
	StateContended
)

// String returns the string representation of the state.
func (s LockState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTrying:
		return "trying"
	case StateHeld:
		return "held"
	case StateFailed:
		return "failed"
	case StateContended:
		return "contended"
	default:
		return "unknown"
	}
}

// LockRecord is the per-descriptor bookkeeping for one acquisition in
// flight. The registry mutex guards map membership; state is stored
// atomically because concurrent acquirers on the same descriptor read it,
// and the remaining fields are mutated exclusively by the goroutine
// driving the acquisition.
type LockRecord struct {
	fd       int
	filename string

	inode    uint64
	inodeSet bool

	attempts          int
	firstAttemptNanos int64
	state             atomic.Int32

	// kernel records whether an advisory lock was actually taken, so a
	// release after acquiring with the subsystem disabled stays
	// syscall-free.
	kernel bool
}

// Fd returns the descriptor this record tracks. The record only references
// it; ownership stays with the caller.
func (r *LockRecord) Fd() int { return r.fd }

// Filename returns the diagnostic label for the descriptor.
func (r *LockRecord) Filename() string { return r.filename }

// Attempts returns the number of lock syscall invocations so far.
func (r *LockRecord) Attempts() int { return r.attempts }

// State returns the record's current state.
func (r *LockRecord) State() LockState { return LockState(r.state.Load()) }

func (r *LockRecord) setState(s LockState) { r.state.Store(int32(s)) }

// Inode returns the cached inode, or zero if never resolved.
func (r *LockRecord) Inode() uint64 { return r.inode }

// setInode caches the inode on first resolution; once set it never changes.
func (r *LockRecord) setInode(ino uint64) {
	if !r.inodeSet {
		r.inode = ino
		r.inodeSet = true
	}
}

// registry maps open file descriptors to lock records, process-wide.
// Insert and lookup are linearizable under a single mutex. The registry
// does not own the descriptors; a record whose descriptor was closed
// without release is pruned lazily on the next lookup.
type registry struct {
	mu      sync.Mutex
	records map[int]*LockRecord
}

func newRegistry() *registry {
	return &registry{records: make(map[int]*LockRecord)}
}

// open installs a fresh record for fd, replacing any previous one.
func (r *registry) open(fd int, filename string) *LockRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := &LockRecord{fd: fd, filename: filename}
	r.records[fd] = rec
	return rec
}

// begin atomically installs a fresh record for fd in the trying state. If
// an acquisition is already outstanding for fd, trying or held, the
// install is refused and the existing record is returned instead. When
// fdValid is non-nil and reports the descriptor closed, a stale record is
// pruned first. Check and insert share one critical section so two
// concurrent acquisitions on the same descriptor can never both proceed.
func (r *registry) begin(fd int, filename string, fdValid func(int) bool) (*LockRecord, *LockRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.records[fd]; ok {
		if fdValid != nil && !fdValid(fd) {
			delete(r.records, fd)
		} else if st := prev.State(); st == StateTrying || st == StateHeld {
			return nil, prev
		}
	}
	rec := &LockRecord{fd: fd, filename: filename}
	rec.setState(StateTrying)
	r.records[fd] = rec
	return rec, nil
}

// get looks up the record for fd. When fdValid is non-nil and reports the
// descriptor closed, the stale record is pruned and the lookup misses.
func (r *registry) get(fd int, fdValid func(int) bool) (*LockRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[fd]
	if !ok {
		return nil, false
	}
	if fdValid != nil && !fdValid(fd) {
		delete(r.records, fd)
		return nil, false
	}
	return rec, true
}

// take removes and returns the record for fd.
func (r *registry) take(fd int) (*LockRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[fd]
	if ok {
		delete(r.records, fd)
	}
	return rec, ok
}

// size returns the number of live records.
func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
