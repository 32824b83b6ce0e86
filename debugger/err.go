package debugger

import (
	"errors"

	"github.com/lsnl/casl/translate"
)

var f = translate.From

var (
	ErrNoProgram = errors.New(f("no object file loaded"))
	ErrBreakFull = errors.New(f("breakpoint table full"))
)
