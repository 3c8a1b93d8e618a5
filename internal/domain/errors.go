package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this module unwraps to one of these.
var (
	// ErrIO is returned when a file cannot be opened, read or written.
	ErrIO = errors.New("i/o error")
	// ErrFormat is returned when a record fails structural or numeric validation.
	ErrFormat = errors.New("format error")
	// ErrCapacity is returned when a coordinate or series count exceeds its fixed maximum.
	ErrCapacity = errors.New("capacity error")
	// ErrConsistency is returned when declared counts disagree with the data.
	ErrConsistency = errors.New("consistency error")
	// ErrUnsupported is returned when an operation does not apply to a model's version or body.
	ErrUnsupported = errors.New("unsupported operation")
)

// Refined kinds. Each wraps one of the kinds above.
var (
	// ErrInvalidBody is returned when a header names none of the known bodies.
	ErrInvalidBody = fmt.Errorf("%w: invalid body", ErrFormat)
	// ErrEarlyEOF is returned when input ends in the middle of a series.
	ErrEarlyEOF = fmt.Errorf("%w: unexpected early end of input", ErrConsistency)
	// ErrUnsupportedVersion is returned when a model's version cannot serve the request.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrUnsupported)
)

// Error carries an error kind together with the location it was detected at.
type Error struct {
	Kind error
	File string
	Line int
	Msg  string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	loc := ""
	switch {
	case e.File != "" && e.Line > 0:
		loc = fmt.Sprintf("%s:%d: ", e.File, e.Line)
	case e.File != "":
		loc = e.File + ": "
	}
	if e.Msg == "" {
		return loc + e.Kind.Error()
	}
	return fmt.Sprintf("%s%s: %s", loc, e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// NewError builds an *Error of the given kind.
func NewError(kind error, file string, line int, format string, args ...any) error {
	return &Error{Kind: kind, File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// FormatErrorf reports a malformed record at file:line.
func FormatErrorf(file string, line int, format string, args ...any) error {
	return NewError(ErrFormat, file, line, format, args...)
}

// IOErrorf reports a failed file operation on file, wrapping cause.
func IOErrorf(file string, cause error) error {
	return &Error{Kind: ErrIO, File: file, Msg: cause.Error(), Err: cause}
}

func unsupportedf(format string, args ...any) error {
	return &Error{Kind: ErrUnsupportedVersion, Msg: fmt.Sprintf(format, args...)}
}
