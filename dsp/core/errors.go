package core

import "errors"

// Precondition failures. Every package in this module wraps one of these
// so callers can classify errors with errors.Is.
var (
	ErrInvalidSize     = errors.New("dsp: invalid size")
	ErrInvalidArgument = errors.New("dsp: invalid argument")
	ErrLengthMismatch  = errors.New("dsp: buffer length mismatch")
	ErrEmptyInput      = errors.New("dsp: empty input")
)
