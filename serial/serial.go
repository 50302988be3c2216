// Package serial drives a tty as a raw 8N1 byte channel with a read
// inactivity timeout, as the MC5000 dev kit expects.
package serial

import (
	"errors"
	"time"

	"github.com/ezrec/mc5000/translate"
)

var f = translate.From

const (
	DEFAULT_BAUD = 19200
	VTIME_UNIT   = 100 * time.Millisecond // Resolution of the tty read timeout.
	VTIME_MAX    = 255                    // Largest tty read timeout, in VTIME_UNIT.
)

var (
	ErrUnsupported = errors.New(f("serial ports are not supported on this platform"))
	ErrClosed      = errors.New(f("serial port closed"))
)

type ErrBaud int

func (err ErrBaud) Error() string {
	return f("unsupported baud rate %d", int(err))
}

// vtime converts a timeout to tty VTIME units, rounding up.
func vtime(timeout time.Duration) uint8 {
	units := (timeout + VTIME_UNIT - 1) / VTIME_UNIT
	return uint8(min(max(units, 1), VTIME_MAX))
}
