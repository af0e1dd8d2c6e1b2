package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by evaluation is an [*Error] that matches exactly one
// of these with [errors.Is], except for errors returned by host callables,
// which are passed through unmodified.
var (
	// Syntax.
	ErrSyntax             = NewError("syntax error")
	ErrUnterminatedString = NewError("unterminated string")
	ErrNumber             = NewError("malformed number")

	// Semantic.
	ErrUndefinedVariable = NewError("undefined variable")
	ErrNotCallable       = NewError("not callable")
	ErrInvalidKey        = NewError("invalid key")
	ErrSpread            = NewError("cannot spread value")
	ErrMemberNotFound    = NewError("member not found")
	ErrOperand           = NewError("unsupported operand")
	ErrDivisionByZero    = NewError("division by zero")
	ErrMaxDepthExceeded  = NewError("maximum expression depth exceeded")

	// Host values and bindings.
	ErrInvalidValueType = NewError("invalid value type")
	ErrArgument         = NewError("invalid argument")
	ErrReadInput        = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	detail string
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg>: <detail>: <err>", omitting empty parts.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [*Error] derived from the same sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:    e.msg,
		detail: e.detail,
		err:    err,
		attrs:  e.attrs, // Share attrs
	}
}

// Detail creates a new Error with a human-readable detail appended to the
// message.
func (e *Error) Detail(detail string) *Error {
	return &Error{
		msg:    e.msg,
		detail: detail,
		err:    e.err,
		attrs:  e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:    e.msg,
		detail: e.detail,
		err:    e.err,
		attrs:  newAttrs,
	}
}
