// Package config holds the programmer settings, optionally loaded from a
// Starlark file such as:
//
//	device = "/dev/ttyUSB0"
//	mcu = 2
//	baud = 19200
//	retries = 10
//	settle_ms = 10
//	timeout_ms = 100
package config

import (
	"errors"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/mc5000/board"
	"github.com/ezrec/mc5000/serial"
	"github.com/ezrec/mc5000/translate"
)

var f = translate.From

var (
	ErrMcu     = errors.New(f("mcu must be a single digit from 1 to 9"))
	ErrRetries = errors.New(f("retries must be at least 1"))
	ErrTiming  = errors.New(f("timings must not be negative"))
)

// ErrSetting is an unusable value in a configuration file.
type ErrSetting struct {
	File string
	Name string
	Err  error
}

func (err *ErrSetting) Error() string {
	return f("%v: %v: %v", err.File, err.Name, err.Err)
}

func (err *ErrSetting) Unwrap() error {
	return err.Err
}

type ErrType string

func (err ErrType) Error() string {
	return f("unexpected type %v", string(err))
}

// Config is the programmer configuration.
type Config struct {
	Device  string        // Serial device; empty if not programming.
	Mcu     int           // Target MCU.
	Baud    int           // Serial line speed.
	Retries int           // Connection attempts.
	Settle  time.Duration // Pause after every byte written.
	Timeout time.Duration // Inactivity timeout of a read.
}

// Default returns the dev kit's standard settings.
func Default() Config {
	return Config{
		Mcu:     board.MCU_MIN,
		Baud:    serial.DEFAULT_BAUD,
		Retries: board.MAX_RETRY,
		Settle:  board.SETTLE_DELAY,
		Timeout: board.READ_TIMEOUT,
	}
}

// Validate checks that the settings are usable.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.Mcu < board.MCU_MIN || cfg.Mcu > board.MCU_MAX:
		err = ErrMcu
	case cfg.Retries < 1:
		err = ErrRetries
	case cfg.Settle < 0 || cfg.Timeout < 0:
		err = ErrTiming
	}
	return
}

// Load executes a Starlark configuration and applies the globals it sets
// on top of cfg. Unset globals keep their value.
func (cfg *Config) Load(filename string, src any) (err error) {
	thread := &starlark.Thread{Name: filename}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, nil)
	if err != nil {
		return
	}

	setting := func(name string, err error) error {
		return &ErrSetting{File: filename, Name: name, Err: err}
	}

	if v, ok := globals["device"]; ok {
		str, ok := starlark.AsString(v)
		if !ok {
			return setting("device", ErrType(v.Type()))
		}
		cfg.Device = str
	}

	ints := []struct {
		name  string
		value *int
	}{
		{"mcu", &cfg.Mcu},
		{"baud", &cfg.Baud},
		{"retries", &cfg.Retries},
	}
	for _, item := range ints {
		v, ok := globals[item.name]
		if !ok {
			continue
		}
		*item.value, err = starlark.AsInt32(v)
		if err != nil {
			return setting(item.name, err)
		}
	}

	durations := []struct {
		name  string
		value *time.Duration
	}{
		{"settle_ms", &cfg.Settle},
		{"timeout_ms", &cfg.Timeout},
	}
	for _, item := range durations {
		v, ok := globals[item.name]
		if !ok {
			continue
		}
		var ms int
		ms, err = starlark.AsInt32(v)
		if err != nil {
			return setting(item.name, err)
		}
		*item.value = time.Duration(ms) * time.Millisecond
	}

	return
}
