package buslock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestStatus_ThreeOutcomesDistinguishable(t *testing.T) {
	t.Parallel()

	ok := StatusOK
	contended := StatusContended
	errored := errnoStatus(unix.EACCES)

	assert.True(t, ok.Acquired())
	assert.False(t, ok.Contended())
	assert.Zero(t, ok.Errno())

	assert.False(t, contended.Acquired())
	assert.True(t, contended.Contended())
	assert.Zero(t, contended.Errno())
	assert.Greater(t, int(contended), 0, "contended is a positive sentinel")

	assert.False(t, errored.Acquired())
	assert.False(t, errored.Contended())
	assert.Equal(t, unix.EACCES, errored.Errno())
	assert.Less(t, int(errored), 0, "errors are negated errno")
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acquired", StatusOK.String())
	assert.Equal(t, "contended", StatusContended.String())
	assert.Contains(t, errnoStatus(unix.EPERM).String(), "EPERM")
}

func TestAsErrno(t *testing.T) {
	t.Parallel()

	assert.Equal(t, unix.EWOULDBLOCK, asErrno(unix.EWOULDBLOCK))
	// Non-errno errors default to EIO rather than losing the failure.
	assert.Equal(t, unix.EIO, asErrno(assert.AnError))
}
