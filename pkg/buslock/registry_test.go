package buslock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OpenReplacesExistingRecord(t *testing.T) {
	t.Parallel()
	r := newRegistry()

	first := r.open(3, "i2c-1")
	first.attempts = 7
	second := r.open(3, "i2c-1")

	got, ok := r.get(3, nil)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 0, got.attempts)
	assert.Equal(t, 1, r.size())
}

func TestRegistry_TakeRemoves(t *testing.T) {
	t.Parallel()
	r := newRegistry()

	r.open(3, "i2c-1")
	rec, ok := r.take(3)
	require.True(t, ok)
	assert.Equal(t, "i2c-1", rec.Filename())
	assert.Equal(t, 0, r.size())

	_, ok = r.take(3)
	assert.False(t, ok)
}

func TestRegistry_LazyPruneOfClosedFd(t *testing.T) {
	t.Parallel()
	r := newRegistry()

	r.open(3, "i2c-1")
	r.open(4, "i2c-2")

	closed := func(fd int) bool { return fd != 3 }

	_, ok := r.get(3, closed)
	assert.False(t, ok, "record for closed fd pruned on lookup")
	assert.Equal(t, 1, r.size())

	_, ok = r.get(4, closed)
	assert.True(t, ok)
}

func TestRegistry_BeginRefusesOutstandingAcquisition(t *testing.T) {
	t.Parallel()
	r := newRegistry()

	rec, prev := r.begin(3, "i2c-1", nil)
	require.NotNil(t, rec)
	require.Nil(t, prev)
	assert.Equal(t, StateTrying, rec.State())

	_, prev = r.begin(3, "i2c-1", nil)
	assert.Same(t, rec, prev)

	rec.setState(StateHeld)
	_, prev = r.begin(3, "i2c-1", nil)
	assert.Same(t, rec, prev)

	// A terminal record no longer blocks a new acquisition.
	rec.setState(StateContended)
	next, prev := r.begin(3, "i2c-1", nil)
	require.Nil(t, prev)
	assert.NotSame(t, rec, next)
	assert.Equal(t, 1, r.size())
}

func TestRegistry_BeginPrunesClosedFd(t *testing.T) {
	t.Parallel()
	r := newRegistry()

	stale, prev := r.begin(3, "i2c-1", nil)
	require.Nil(t, prev)
	stale.setState(StateHeld)

	closed := func(int) bool { return false }
	next, prev := r.begin(3, "i2c-1", closed)
	require.Nil(t, prev)
	assert.NotSame(t, stale, next)
	assert.Equal(t, 1, r.size())
}

func TestLockRecord_InodeSetOnce(t *testing.T) {
	t.Parallel()

	rec := &LockRecord{}
	rec.setInode(101)
	rec.setInode(202)
	assert.Equal(t, uint64(101), rec.Inode())
}

func TestLockState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "trying", StateTrying.String())
	assert.Equal(t, "held", StateHeld.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "contended", StateContended.String())
}
