package runtime

import "fmt"

// ErrorKind labels the failure categories surfaced to scripts and hosts.
type ErrorKind string

const (
	ErrUndefinedVariable ErrorKind = "UndefinedVariable"
	ErrArity             ErrorKind = "ArityError"
	ErrType              ErrorKind = "TypeError"
	ErrDivideByZero      ErrorKind = "DivideByZero"
	ErrIndex             ErrorKind = "IndexError"
	ErrProperty          ErrorKind = "PropertyNotFound"
	ErrNotCallable       ErrorKind = "NotCallable"
	ErrGuard             ErrorKind = "GuardFailure"
	ErrLoopLimit         ErrorKind = "LoopLimit"
	ErrImport            ErrorKind = "ImportError"
	ErrRuntime           ErrorKind = "RuntimeError"
)

// Error is a runtime failure carrying the source position of the expression
// that raised it. Line stays zero until the evaluator stamps a position.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

// NewError builds an error with a formatted message and no position yet.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Description is the text a rescue clause binds.
func (e *Error) Description() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// WithPos stamps the source position unless one is already set.
func (e *Error) WithPos(line, column int) *Error {
	if e.Line == 0 {
		e.Line = line
		e.Column = column
	}
	return e
}

// AsError converts any Go error into a rill error, defaulting the kind to
// RuntimeError for foreign failures.
func AsError(err error) *Error {
	if rerr, ok := err.(*Error); ok {
		return rerr
	}
	return NewError(ErrRuntime, "%s", err.Error())
}
