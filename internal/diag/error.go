package diag

import (
	"errors"
	"fmt"

	"ember/internal/source"
)

// Error carries one diagnostic through ordinary error returns.
type Error struct {
	Diag Diagnostic
}

// Errorf builds an error-severity diagnostic wrapped as *Error.
func Errorf(code Code, span source.Span, format string, args ...any) *Error {
	return &Error{Diag: NewError(code, span, fmt.Sprintf(format, args...))}
}

// Unsupported reports a capability the compiler recognises but does not implement.
func Unsupported(code Code, span source.Span, what string) *Error {
	return &Error{Diag: NewError(code, span, what+" is not supported")}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

// Kind reports the stage that produced the error.
func (e *Error) Kind() Kind { return e.Diag.Code.Kind() }

// Code returns the diagnostic code.
func (e *Error) Code() Code { return e.Diag.Code }

// Note attaches context (typically the enclosing construct) and returns e.
func (e *Error) Note(span source.Span, msg string) *Error {
	e.Diag = e.Diag.WithNote(span, msg)
	return e
}

// Report forwards the diagnostic to r.
func (e *Error) Report(r Reporter) {
	if r == nil {
		return
	}
	r.Report(e.Diag.Code, e.Diag.Severity, e.Diag.Primary, e.Diag.Message, e.Diag.Notes)
}

// AsError unwraps err into *Error when possible.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// CodeOf returns the diagnostic code carried by err, or UnknownCode.
func CodeOf(err error) Code {
	if de, ok := AsError(err); ok {
		return de.Diag.Code
	}
	return UnknownCode
}
