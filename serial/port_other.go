//go:build !linux && !darwin

package serial

import (
	"time"
)

// Port is an open serial device.
type Port struct {
	Name string
}

// Open always fails on this platform.
func Open(name string, baud int, timeout time.Duration) (port *Port, err error) {
	err = ErrUnsupported
	return
}

func (port *Port) Write(p []byte) (n int, err error) {
	err = ErrUnsupported
	return
}

func (port *Port) ReadTimeout(p []byte, timeout time.Duration) (n int, err error) {
	err = ErrUnsupported
	return
}

func (port *Port) Close() (err error) {
	return
}
