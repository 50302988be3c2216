package serial

import (
	"golang.org/x/sys/unix"
)

const (
	ioctlGetTermios      = unix.TIOCGETA
	ioctlSetTermios      = unix.TIOCSETA
	ioctlSetTermiosFlush = unix.TIOCSETAF
)

var baudMap = map[int]uint64{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

func setSpeed(t *unix.Termios, speed uint64) {
	t.Ispeed = speed
	t.Ospeed = speed
}
