// Package clock provides monotonic time and cooperative sleep for the bus
// lock manager. The acquisition loop depends only on the Clock interface so
// that budget arithmetic can be tested without real waiting.
package clock

import "time"

// Clock supplies monotonic time and millisecond-granularity sleep.
type Clock interface {
	// Monotonic returns a strictly non-decreasing nanosecond count.
	Monotonic() int64
	// SleepMillis yields the calling goroutine for approximately n milliseconds.
	SleepMillis(n int)
}

// Real is the production Clock backed by the runtime's monotonic clock.
type Real struct{}

// NewReal returns the production clock.
func NewReal() *Real {
	return &Real{}
}

var base = time.Now()

// Monotonic returns nanoseconds since process start. Go's time package
// carries a monotonic reading in every time.Time, so the difference is
// immune to wall-clock jumps.
func (*Real) Monotonic() int64 {
	return int64(time.Since(base))
}

// SleepMillis sleeps for n milliseconds. Nonpositive values return
// immediately.
func (*Real) SleepMillis(n int) {
	if n <= 0 {
		return
	}
	time.Sleep(time.Duration(n) * time.Millisecond)
}
