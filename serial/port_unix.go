//go:build linux || darwin

package serial

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Port is an open serial device.
type Port struct {
	Name string

	fd      int
	timeout time.Duration
	restore unix.Termios
}

// Open opens a serial device at the given baud rate, in raw mode with a
// read timeout of timeout.
func Open(name string, baud int, timeout time.Duration) (port *Port, err error) {
	speed, ok := baudMap[baud]
	if !ok {
		err = ErrBaud(baud)
		return
	}

	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		err = &os.PathError{Op: "open", Path: name, Err: err}
		return
	}

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		unix.Close(fd)
		err = &os.PathError{Op: "tcgetattr", Path: name, Err: err}
		return
	}

	port = &Port{
		Name:    name,
		fd:      fd,
		restore: *termios,
	}

	state := *termios
	makeRaw(&state)
	setSpeed(&state, speed)
	state.Cflag |= unix.CREAD | unix.CS8 // 8N1, no flow control
	state.Cflag |= unix.CLOCAL           // ignore modem status
	state.Cc[unix.VMIN] = 0
	state.Cc[unix.VTIME] = vtime(timeout)

	err = unix.IoctlSetTermios(fd, ioctlSetTermiosFlush, &state)
	if err != nil {
		unix.Close(fd)
		port = nil
		err = &os.PathError{Op: "tcsetattr", Path: name, Err: err}
		return
	}
	port.timeout = timeout

	return
}

// makeRaw is cfmakeraw(3).
func makeRaw(t *unix.Termios) {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
}

// setTimeout reprograms the tty read timeout.
func (port *Port) setTimeout(timeout time.Duration) (err error) {
	if timeout == port.timeout {
		return
	}

	termios, err := unix.IoctlGetTermios(port.fd, ioctlGetTermios)
	if err != nil {
		return
	}
	termios.Cc[unix.VTIME] = vtime(timeout)
	err = unix.IoctlSetTermios(port.fd, ioctlSetTermios, termios)
	if err != nil {
		return
	}
	port.timeout = timeout

	return
}

// Write writes p to the device.
func (port *Port) Write(p []byte) (n int, err error) {
	if port.fd < 0 {
		err = ErrClosed
		return
	}

	for n < len(p) {
		var w int
		w, err = unix.Write(port.fd, p[n:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			err = &os.PathError{Op: "write", Path: port.Name, Err: err}
			return
		}
		n += w
	}

	return
}

// ReadTimeout reads until p is full or the line is idle for timeout.
func (port *Port) ReadTimeout(p []byte, timeout time.Duration) (n int, err error) {
	if port.fd < 0 {
		err = ErrClosed
		return
	}

	err = port.setTimeout(timeout)
	if err != nil {
		err = &os.PathError{Op: "tcsetattr", Path: port.Name, Err: err}
		return
	}

	for n < len(p) {
		var r int
		r, err = unix.Read(port.fd, p[n:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			err = &os.PathError{Op: "read", Path: port.Name, Err: err}
			return
		}
		if r == 0 {
			// VTIME expired.
			break
		}
		n += r
	}

	return
}

// Close restores the original line settings and closes the device.
func (port *Port) Close() (err error) {
	if port.fd < 0 {
		return
	}

	rerr := unix.IoctlSetTermios(port.fd, ioctlSetTermios, &port.restore)
	err = unix.Close(port.fd)
	port.fd = -1
	if err == nil && rerr != nil {
		err = &os.PathError{Op: "tcsetattr", Path: port.Name, Err: rerr}
	}

	return
}
