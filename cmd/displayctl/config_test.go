package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/displayctl/displayctl/pkg/buslock"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DISPLAYCTL_FLOCK_DISABLE", "")
	t.Setenv("DISPLAYCTL_FLOCK_POLL_MILLIS", "")
	t.Setenv("DISPLAYCTL_FLOCK_MAX_WAIT_MILLIS", "")
	t.Setenv("DISPLAYCTL_DEBUG", "")

	assert.Equal(t, buslock.DefaultConfig(), loadConfigFromEnv())
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("DISPLAYCTL_FLOCK_DISABLE", "true")
	t.Setenv("DISPLAYCTL_FLOCK_POLL_MILLIS", "25")
	t.Setenv("DISPLAYCTL_FLOCK_MAX_WAIT_MILLIS", "750")
	t.Setenv("DISPLAYCTL_DEBUG", "1")

	cfg := loadConfigFromEnv()
	assert.False(t, cfg.CrossInstanceEnabled)
	assert.Equal(t, 25, cfg.PollIntervalMillis)
	assert.Equal(t, 750, cfg.MaxWaitMillis)
	assert.True(t, cfg.Debug)
}

func TestLoadConfigFromEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("DISPLAYCTL_FLOCK_DISABLE", "maybe")
	t.Setenv("DISPLAYCTL_FLOCK_POLL_MILLIS", "soon")
	t.Setenv("DISPLAYCTL_FLOCK_MAX_WAIT_MILLIS", "")
	t.Setenv("DISPLAYCTL_DEBUG", "")

	assert.Equal(t, buslock.DefaultConfig(), loadConfigFromEnv())
}
