package edid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidHeader(t *testing.T) {
	t.Parallel()

	good := []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}
	assert.True(t, ValidHeader(good))
	assert.True(t, ValidHeader(append(good, 0x4c, 0x2d)))

	assert.False(t, ValidHeader(nil))
	assert.False(t, ValidHeader(good[:7]))

	bad := append([]byte(nil), good...)
	bad[3] = 0x00
	assert.False(t, ValidHeader(bad))
}

func TestProbe_BadDescriptor(t *testing.T) {
	t.Parallel()
	// -1 is never a valid descriptor; the probe must fail, not panic.
	assert.Error(t, Probe(-1))
}
