package casl

import (
	"errors"

	"github.com/lsnl/casl/translate"
)

var f = translate.From

var (
	ErrNoStart      = errors.New(f("START missing"))
	ErrNoEnd        = errors.New(f("END missing"))
	ErrStartLabel   = errors.New(f("START requires a label"))
	ErrAfterEnd     = errors.New(f("instruction after END"))
	ErrBadLabel     = errors.New(f("illegal label"))
	ErrBadMnemonic  = errors.New(f("illegal mnemonic"))
	ErrBadForm      = errors.New(f("no addressing form matches the operands"))
	ErrOperandCount = errors.New(f("wrong operand count"))
	ErrGR0Index     = errors.New(f("GR0 cannot be an index register"))
	ErrBadString    = errors.New(f("unterminated string"))
	ErrBadOperand   = errors.New(f("illegal operand"))
	ErrStartTwice   = errors.New(f("START inside a block"))
	ErrAddressRange = errors.New(f("address out of range"))
)

// ErrSyntax locates an assembly error at its source line.
type ErrSyntax struct {
	File   string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("%v:%d '%v' %v", err.File, err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrDuplicateLabel names a label defined twice.
type ErrDuplicateLabel string

func (err ErrDuplicateLabel) Error() string {
	return f("label %v already defined", string(err))
}

// ErrUnresolvedLabel names a label that pass two could not resolve.
type ErrUnresolvedLabel string

func (err ErrUnresolvedLabel) Error() string {
	return f("label %v undefined", string(err))
}

// ErrParseNumber names an operand that is not a number.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseExpression names a $(...) expression that failed to evaluate.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
