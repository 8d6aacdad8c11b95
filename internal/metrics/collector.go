// Package metrics provides statistics collection for bus lock operations.
// Most of the manager's elapsed time is spent sleeping between lock polls,
// so sleep accounting is tracked alongside the syscall counters.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks lock manager statistics.
type Collector struct {
	mu sync.Mutex

	// Counters
	flockCalls       int64
	acquisitions     int64
	releases         int64
	contentionEvents int64
	failedCalls      int64
	probeCalls       int64
	probeFailures    int64

	// Sleep accounting
	sleepCalls           int64
	requestedSleepMillis int64
	actualSleepNanos     int64

	// Wait durations of terminal outcomes, most recent last
	waitDurations []time.Duration

	startTime time.Time
}

// maxWaitSamples bounds the retained wait-duration history.
const maxWaitSamples = 1000

// Stats is a point-in-time snapshot of the collector.
type Stats struct {
	FlockCalls       int64
	Acquisitions     int64
	Releases         int64
	ContentionEvents int64
	FailedCalls      int64
	ProbeCalls       int64
	ProbeFailures    int64

	SleepCalls           int64
	RequestedSleepMillis int64
	ActualSleepNanos     int64

	AverageWait time.Duration
	Uptime      time.Duration
}

// NewCollector creates a new statistics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime:     time.Now(),
		waitDurations: make([]time.Duration, 0, maxWaitSamples),
	}
}

// RecordFlockCall counts one lock syscall invocation.
func (c *Collector) RecordFlockCall() {
	atomic.AddInt64(&c.flockCalls, 1)
}

// RecordAcquisition records a successful acquire and its total wait.
func (c *Collector) RecordAcquisition(waited time.Duration) {
	atomic.AddInt64(&c.acquisitions, 1)
	c.recordWait(waited)
}

// RecordRelease counts a successful release.
func (c *Collector) RecordRelease() {
	atomic.AddInt64(&c.releases, 1)
}

// RecordContention records an acquire that exhausted its wait budget.
func (c *Collector) RecordContention(waited time.Duration) {
	atomic.AddInt64(&c.contentionEvents, 1)
	c.recordWait(waited)
}

// RecordFailure counts an acquire terminated by a kernel error.
func (c *Collector) RecordFailure() {
	atomic.AddInt64(&c.failedCalls, 1)
}

// RecordProbe counts one sideband probe invocation and whether it failed.
func (c *Collector) RecordProbe(failed bool) {
	atomic.AddInt64(&c.probeCalls, 1)
	if failed {
		atomic.AddInt64(&c.probeFailures, 1)
	}
}

// RecordSleep records one poll-interval sleep: the requested duration in
// milliseconds and the measured duration in nanoseconds.
func (c *Collector) RecordSleep(requestedMillis int, actual time.Duration) {
	atomic.AddInt64(&c.sleepCalls, 1)
	atomic.AddInt64(&c.requestedSleepMillis, int64(requestedMillis))
	atomic.AddInt64(&c.actualSleepNanos, actual.Nanoseconds())
}

func (c *Collector) recordWait(waited time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waitDurations = append(c.waitDurations, waited)
	if len(c.waitDurations) > maxWaitSamples {
		c.waitDurations = c.waitDurations[len(c.waitDurations)-maxWaitSamples:]
	}
}

// Snapshot returns current statistics.
func (c *Collector) Snapshot() Stats {
	c.mu.Lock()
	avgWait := c.averageWaitNoLock()
	c.mu.Unlock()

	return Stats{
		FlockCalls:           atomic.LoadInt64(&c.flockCalls),
		Acquisitions:         atomic.LoadInt64(&c.acquisitions),
		Releases:             atomic.LoadInt64(&c.releases),
		ContentionEvents:     atomic.LoadInt64(&c.contentionEvents),
		FailedCalls:          atomic.LoadInt64(&c.failedCalls),
		ProbeCalls:           atomic.LoadInt64(&c.probeCalls),
		ProbeFailures:        atomic.LoadInt64(&c.probeFailures),
		SleepCalls:           atomic.LoadInt64(&c.sleepCalls),
		RequestedSleepMillis: atomic.LoadInt64(&c.requestedSleepMillis),
		ActualSleepNanos:     atomic.LoadInt64(&c.actualSleepNanos),
		AverageWait:          avgWait,
		Uptime:               time.Since(c.startTime),
	}
}

// averageWaitNoLock calculates the average wait without acquiring the lock.
func (c *Collector) averageWaitNoLock() time.Duration {
	if len(c.waitDurations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range c.waitDurations {
		total += d
	}
	return total / time.Duration(len(c.waitDurations))
}

// Reset resets all statistics (useful for testing).
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.flockCalls, 0)
	atomic.StoreInt64(&c.acquisitions, 0)
	atomic.StoreInt64(&c.releases, 0)
	atomic.StoreInt64(&c.contentionEvents, 0)
	atomic.StoreInt64(&c.failedCalls, 0)
	atomic.StoreInt64(&c.probeCalls, 0)
	atomic.StoreInt64(&c.probeFailures, 0)
	atomic.StoreInt64(&c.sleepCalls, 0)
	atomic.StoreInt64(&c.requestedSleepMillis, 0)
	atomic.StoreInt64(&c.actualSleepNanos, 0)

	c.waitDurations = c.waitDurations[:0]
	c.startTime = time.Now()
}
