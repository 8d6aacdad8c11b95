package clock

import "sync"

// Fake is a deterministic Clock for tests. Time advances only when
// SleepMillis is called.
type Fake struct {
	mu     sync.Mutex
	nanos  int64
	sleeps []int
}

// NewFake returns a fake clock starting at zero.
func NewFake() *Fake {
	return &Fake{}
}

// Monotonic returns the current fake reading.
func (f *Fake) Monotonic() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nanos
}

// SleepMillis advances the fake clock by n milliseconds and records the call.
func (f *Fake) SleepMillis(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n > 0 {
		f.nanos += int64(n) * 1e6
	}
	f.sleeps = append(f.sleeps, n)
}

// Advance moves the clock forward without recording a sleep.
func (f *Fake) Advance(nanos int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nanos += nanos
}

// Sleeps returns a copy of the recorded sleep durations, in call order.
func (f *Fake) Sleeps() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.sleeps))
	copy(out, f.sleeps)
	return out
}
