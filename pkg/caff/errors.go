package caff

import "errors"

var (
	ErrIO        = errors.New("i/o error")
	ErrFormat    = errors.New("malformed input")
	ErrSize      = errors.New("size out of range")
	ErrTruncated = errors.New("truncated input")
	ErrNoFrames  = errors.New("no animation frames")
)

// Refinements of ErrFormat. Each satisfies errors.Is(err, ErrFormat).
var (
	ErrInvalidMagic        error = formatError{msg: "invalid magic"}
	ErrBlockLengthMismatch error = formatError{msg: "block length mismatch"}
	ErrUnexpectedBlock     error = formatError{msg: "unexpected block"}
	ErrTrailingData        error = formatError{msg: "trailing data"}
)

type formatError struct {
	msg string
}

func (e formatError) Error() string {
	return e.msg
}

func (e formatError) Unwrap() error {
	return ErrFormat
}
