package buslock

import "sync"

// Defaults for the process-wide tunables. The poll interval stays in the
// tens of milliseconds so a waiting process notices a released bus quickly
// without hammering the kernel.
const (
	DefaultPollIntervalMillis = 50
	DefaultMaxWaitMillis      = 1500
)

// Config holds the process-wide lock manager tunables. These change only
// during startup; the acquisition loop snapshots them once per call.
type Config struct {
	// CrossInstanceEnabled arms the whole subsystem. When false, acquire
	// and release are bookkeeping-only no-ops that report success.
	CrossInstanceEnabled bool
	// PollIntervalMillis is the sleep between lock polls.
	PollIntervalMillis int
	// MaxWaitMillis is the total wait budget; zero means a single
	// non-blocking probe.
	MaxWaitMillis int
	// Debug enables verbose tracing and turns contract violations into
	// panics.
	Debug bool
}

// DefaultConfig returns the startup configuration.
func DefaultConfig() Config {
	return Config{
		CrossInstanceEnabled: true,
		PollIntervalMillis:   DefaultPollIntervalMillis,
		MaxWaitMillis:        DefaultMaxWaitMillis,
	}
}

var (
	configMu      sync.RWMutex
	currentConfig = DefaultConfig()
)

// SetConfig replaces the process-wide configuration. It is the only
// mutation path. Out-of-range values are clamped: a nonpositive poll
// interval falls back to the default, a negative max wait becomes zero.
func SetConfig(cfg Config) {
	if cfg.PollIntervalMillis <= 0 {
		cfg.PollIntervalMillis = DefaultPollIntervalMillis
	}
	if cfg.MaxWaitMillis < 0 {
		cfg.MaxWaitMillis = 0
	}
	configMu.Lock()
	currentConfig = cfg
	configMu.Unlock()
}

// GetConfig returns a snapshot of the process-wide configuration.
func GetConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return currentConfig
}
