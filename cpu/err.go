package cpu

import (
	"errors"
	"fmt"

	"github.com/ezrec/mc5000/translate"
)

var f = translate.From

var (
	// Fatal assembler errors
	ErrLabelOverflow = errors.New(f("too many labels"))

	// Line errors
	ErrLineLength = errors.New(f("overlong line"))
	ErrLineSyntax = errors.New(f("syntax error"))
)

// location formats a "file:line: " prefix. Line numbers are never localized.
func location(file string, lineno int) string {
	return fmt.Sprintf("%v:%d: ", file, lineno)
}

// ErrSyntax reports a diagnostic at a source location.
type ErrSyntax struct {
	File   string
	LineNo int
	Err    error
}

func (err *ErrSyntax) Error() string {
	return location(err.File, err.LineNo) + err.Err.Error()
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrRead reports an input failure.
type ErrRead struct {
	File   string
	LineNo int
	Err    error
}

func (err *ErrRead) Error() string {
	return location(err.File, err.LineNo) + f("read error: %v", err.Err)
}

func (err *ErrRead) Unwrap() error {
	return err.Err
}

type ErrInstructionUndefined string

func (err ErrInstructionUndefined) Error() string {
	return f("undefined instruction %v", string(err))
}

type ErrArgumentMissing string

func (err ErrArgumentMissing) Error() string {
	return f("%v missing argument", string(err))
}

type ErrArgumentExtra struct {
	Op  string
	Arg string
}

func (err ErrArgumentExtra) Error() string {
	return f("extra argument to %v: %v", err.Op, err.Arg)
}

type ErrRegisterExpected string

func (err ErrRegisterExpected) Error() string {
	return f("register expected, not %v", string(err))
}

type ErrRegisterUndefined string

func (err ErrRegisterUndefined) Error() string {
	return f("undefined register %v", string(err))
}

type ErrPortInvalid string

func (err ErrPortInvalid) Error() string {
	return f("%v is not an XBus port", string(err))
}

type ErrPortUndefined string

func (err ErrPortUndefined) Error() string {
	return f("undefined port %v", string(err))
}
