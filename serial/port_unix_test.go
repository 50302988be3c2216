//go:build linux || darwin

package serial

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestOpen(t *testing.T) {
	assert := assert.New(t)

	_, err := Open("/dev/null", 1234, time.Second)
	assert.ErrorIs(err, ErrBaud(1234))

	missing := filepath.Join(t.TempDir(), "ttyMISSING")
	_, err = Open(missing, DEFAULT_BAUD, time.Second)
	var perr *os.PathError
	assert.True(errors.As(err, &perr))
	assert.Equal(missing, perr.Path)

	// Not a terminal.
	_, err = Open("/dev/null", DEFAULT_BAUD, time.Second)
	assert.True(errors.As(err, &perr))
	assert.Equal("tcgetattr", perr.Op)
}

func TestClosedPort(t *testing.T) {
	assert := assert.New(t)

	port := &Port{Name: "closed", fd: -1}
	_, err := port.Write([]byte{0})
	assert.ErrorIs(err, ErrClosed)
	_, err = port.ReadTimeout(make([]byte, 1), time.Second)
	assert.ErrorIs(err, ErrClosed)
	assert.NoError(port.Close())
}

func TestCloseRestoreError(t *testing.T) {
	assert := assert.New(t)

	fd, err := unix.Open("/dev/null", unix.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Restoring the line settings fails on a file that is not a terminal.
	port := &Port{Name: "/dev/null", fd: fd}
	err = port.Close()
	var perr *os.PathError
	assert.True(errors.As(err, &perr))
	assert.Equal("tcsetattr", perr.Op)
	assert.ErrorIs(err, unix.ENOTTY)

	// The descriptor is released all the same.
	assert.Equal(-1, port.fd)
	assert.NoError(port.Close())
}
