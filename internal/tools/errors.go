package tools

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Error kinds. Match with errors.Is.
var (
	ErrInputNotFound     = eris.New("input not found")
	ErrColumnNotFound    = eris.New("column not found")
	ErrEmptyTable        = eris.New("empty table")
	ErrInvalidArgs       = eris.New("invalid arguments")
	ErrUnknownTool       = eris.New("unknown tool")
	ErrMalformedRequest  = eris.New("malformed request")
	ErrInvocationFailure = eris.New("invocation failure")
)

// Error is a tool failure. Msg is the text returned to callers; Kind is one
// of the Err* sentinels above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
