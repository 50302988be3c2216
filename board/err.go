package board

import (
	"errors"

	"github.com/ezrec/mc5000/translate"
)

var f = translate.From

var (
	// Protocol errors
	ErrNoResponse  = errors.New(f("no response from board"))
	ErrProgramming = errors.New(f("programming failure"))
	ErrMcuInvalid  = errors.New(f("MCU number must be 1 to 9"))
	ErrState       = errors.New(f("operation invalid in this state"))
)

// ErrDevice is a failure of the serial device.
type ErrDevice struct {
	Device string
	Err    error
}

func (err *ErrDevice) Error() string {
	return f("%v: %v", err.Device, err.Err)
}

func (err *ErrDevice) Unwrap() error {
	return err.Err
}

// ErrMcu is a failure reported about a specific MCU.
type ErrMcu struct {
	Mcu int
	Err error
}

func (err *ErrMcu) Error() string {
	return f("MCU #%d: %v", err.Mcu, err.Err)
}

func (err *ErrMcu) Unwrap() error {
	return err.Err
}

// ErrTruncated is a message that ended early.
type ErrTruncated struct {
	Got  int
	Want int
}

func (err ErrTruncated) Error() string {
	return f("truncated message, %d/%d bytes", err.Got, err.Want)
}

type ErrResultUnknown int

func (err ErrResultUnknown) Error() string {
	return f("unknown result (%d)", int(err))
}

// Reasons a received message is junk.

type ErrChipId byte

func (err ErrChipId) Error() string {
	return f("invalid chip ID 0x%.2X in response", byte(err))
}

type ErrReportChecksum byte

func (err ErrReportChecksum) Error() string {
	return f("bad checksum 0x%.2X in report", byte(err))
}

type ErrUnexpectedByte byte

func (err ErrUnexpectedByte) Error() string {
	return f("unexpected byte 0x%.2X", byte(err))
}
