package comet

import (
	"errors"

	"github.com/lsnl/casl/translate"
)

var f = translate.From

var (
	// Runtime traps. The engine suspends and the debugger reports.
	ErrBadRegister    = errors.New(f("invalid register"))
	ErrBadInstruction = errors.New(f("illegal instruction"))
	ErrStackExhausted = errors.New(f("stack exhausted"))

	// Object file errors.
	ErrNoHeader = errors.New(f("missing COMET header"))
)

// ErrTrap locates a runtime trap at the instruction that raised it.
type ErrTrap struct {
	Addr uint16
	Err  error
}

func (err *ErrTrap) Error() string {
	return f("trap at #%04x: %v", err.Addr, err.Err)
}

func (err *ErrTrap) Unwrap() error {
	return err.Err
}

// ErrObject locates an object file format error.
type ErrObject struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrObject) Error() string {
	return f("object line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrObject) Unwrap() error {
	return err.Err
}
