package buslock

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestDiagnose_MissingPathYieldsEmptyReport(t *testing.T) {
	withConfig(t, DefaultConfig())

	m, _, capture := testManager(t)
	report := m.Diagnose(filepath.Join(t.TempDir(), "i2c-99"), true)

	require.NotNil(t, report)
	assert.Zero(t, report.Inode)
	assert.Empty(t, report.Holders)
	assert.Contains(t, capture.Text(), "none found")
}

func TestDiagnose_ReportsHolderOfHeldLock(t *testing.T) {
	if _, err := os.Stat("/proc/locks"); err != nil {
		t.Skip("/proc/locks not available")
	}
	withConfig(t, DefaultConfig())

	m, _, capture := testManager(t)

	path := filepath.Join(t.TempDir(), "i2c-7")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB))
	defer func() { _ = unix.Flock(int(f.Fd()), unix.LOCK_UN) }()

	report := m.Diagnose(path, true)

	require.NotEmpty(t, report.Holders)
	assert.NotEmpty(t, report.ID)
	found := false
	for _, h := range report.Holders {
		if h.PID == os.Getpid() {
			found = true
		}
	}
	assert.True(t, found)
	assert.Contains(t, capture.Text(), strconv.Itoa(os.Getpid()))
}

func TestDiagnoseFd_MatchesPathVariant(t *testing.T) {
	if _, err := os.Stat("/proc/locks"); err != nil {
		t.Skip("/proc/locks not available")
	}
	withConfig(t, DefaultConfig())

	m, _, _ := testManager(t)

	path := filepath.Join(t.TempDir(), "i2c-8")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB))
	defer func() { _ = unix.Flock(int(f.Fd()), unix.LOCK_UN) }()

	byPath := m.Diagnose(path, false)
	byFd := m.DiagnoseFd(int(f.Fd()), path, false)

	assert.Equal(t, byPath.Inode, byFd.Inode)
	assert.Equal(t, byPath.Device, byFd.Device)
	assert.Equal(t, len(byPath.Holders), len(byFd.Holders))
}
