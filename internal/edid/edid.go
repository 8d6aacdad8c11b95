// Package edid implements the sideband liveness probe used while waiting
// for a contended bus lock: a short read at the EDID I²C sub-address tells
// whether the monitor is electrically responsive, independent of who holds
// the advisory lock. The result is purely diagnostic.
package edid

import (
	"bytes"
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	// i2cSlave is the I2C_SLAVE ioctl request.
	i2cSlave = 0x0703
	// edidAddr is the well-known I²C address of the EDID EEPROM.
	edidAddr = 0x50
	// headerLen is the length of the fixed EDID header.
	headerLen = 8
)

// edidHeader is the fixed 8-byte signature that starts every EDID block.
var edidHeader = []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// Probe attempts a short EDID read on an open I²C device descriptor.
// It returns nil when the device answered with a plausible EDID header,
// an error otherwise. The descriptor's slave address is left pointing at
// the EDID EEPROM; callers re-address before DDC traffic anyway.
func Probe(fd int) error {
	if err := unix.IoctlSetInt(fd, i2cSlave, edidAddr); err != nil {
		return fmt.Errorf("set slave address x%02x: %w", edidAddr, err)
	}

	// Write the zero offset, then read the header bytes.
	if _, err := unix.Write(fd, []byte{0x00}); err != nil {
		return fmt.Errorf("write edid offset: %w", err)
	}
	buf := make([]byte, headerLen)
	n, err := unix.Read(fd, buf)
	if err != nil {
		return fmt.Errorf("read edid header: %w", err)
	}
	if n < headerLen {
		return fmt.Errorf("short edid read: %d bytes", n)
	}
	if !ValidHeader(buf) {
		return fmt.Errorf("invalid edid header % x", buf)
	}
	return nil
}

// ValidHeader reports whether b starts with the EDID signature.
func ValidHeader(b []byte) bool {
	return len(b) >= headerLen && bytes.Equal(b[:headerLen], edidHeader)
}
