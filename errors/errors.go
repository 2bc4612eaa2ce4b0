// Package errors defines the error taxonomy surfaced by the interpreter.
// Every failure the engine produces is an *InterpreterError carrying a
// Kind, a message, and the source position when the AST provides one.
package errors

import (
	"fmt"
)

// Kind categorizes an interpreter error.
type Kind string

const (
	// KindError is the base kind: an uncaught sandbox throw with no more
	// specific classification.
	KindError Kind = "Error"
	// KindParse is malformed source text.
	KindParse Kind = "Parse"
	// KindReference is an undeclared read or write.
	KindReference Kind = "Reference"
	// KindType is a non-callable call, invalid index, non-iterable
	// spread, const reassignment or non-object destructuring.
	KindType Kind = "Type"
	// KindSyntax marks constructs the parser accepts but the evaluator
	// rejects, such as yield outside a generator.
	KindSyntax Kind = "Syntax"
	// KindSecurity is a forbidden property name, host mutation or other
	// boundary violation.
	KindSecurity Kind = "Security"
	// KindHostCall wraps a failure thrown by a host function.
	KindHostCall Kind = "HostCall"
	// KindValidation is a validator rejecting the program.
	KindValidation Kind = "Validation"
	// KindAsyncInSync is an async construct reached by the synchronous
	// evaluator.
	KindAsyncInSync Kind = "AsyncInSync"
	// KindCancelled is an aborted or timed-out evaluation.
	KindCancelled Kind = "Cancelled"
	// KindResourceExhausted is a resource tracker refusing an evaluation.
	KindResourceExhausted Kind = "ResourceExhausted"
)

// InterpreterError is the error type surfaced to the host.
type InterpreterError struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
	Err     error
}

// Error implements the error interface.
func (e *InterpreterError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s error at line %d, column %d: %s", e.Kind, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for error chains.
func (e *InterpreterError) Unwrap() error {
	return e.Err
}

// WithPos returns the error with the position set, unless a position was
// already recorded closer to the failure site.
func (e *InterpreterError) WithPos(line, column int) *InterpreterError {
	if e.Line == 0 {
		e.Line = line
		e.Column = column
	}
	return e
}

// New creates an error of the given kind.
func New(kind Kind, message string) *InterpreterError {
	return &InterpreterError{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with formatting.
func Newf(kind Kind, format string, args ...any) *InterpreterError {
	return &InterpreterError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewParseError creates a parse error at a position.
func NewParseError(message string, line, column int) *InterpreterError {
	return &InterpreterError{Kind: KindParse, Message: message, Line: line, Column: column}
}

// NewReferenceErrorf creates a reference error.
func NewReferenceErrorf(format string, args ...any) *InterpreterError {
	return Newf(KindReference, format, args...)
}

// NewTypeErrorf creates a type error.
func NewTypeErrorf(format string, args ...any) *InterpreterError {
	return Newf(KindType, format, args...)
}

// NewSyntaxErrorf creates a syntax error.
func NewSyntaxErrorf(format string, args ...any) *InterpreterError {
	return Newf(KindSyntax, format, args...)
}

// NewSecurityErrorf creates a security error.
func NewSecurityErrorf(format string, args ...any) *InterpreterError {
	return Newf(KindSecurity, format, args...)
}

// NewHostCallError wraps an error raised by a host function. When redact
// is set the original message is hidden from the sandbox and the host.
func NewHostCallError(cause error, redact bool) *InterpreterError {
	msg := "host function call failed"
	if !redact && cause != nil {
		msg = cause.Error()
	}
	return &InterpreterError{Kind: KindHostCall, Message: msg, Err: cause}
}

// NewValidationError reports a validator rejection.
func NewValidationError(message string) *InterpreterError {
	if message == "" {
		message = "program rejected by validator"
	}
	return &InterpreterError{Kind: KindValidation, Message: message}
}

// NewAsyncInSyncError reports an async construct in synchronous mode.
func NewAsyncInSyncError(what string) *InterpreterError {
	return Newf(KindAsyncInSync, "%s requires evaluateAsync", what)
}

// NewCancelledError reports an aborted or timed-out evaluation.
func NewCancelledError(reason string) *InterpreterError {
	if reason == "" {
		reason = "evaluation cancelled"
	}
	return &InterpreterError{Kind: KindCancelled, Message: reason}
}

// NewResourceExhaustedError reports a tracker limit being hit.
func NewResourceExhaustedError(limit string) *InterpreterError {
	return Newf(KindResourceExhausted, "resource limit reached: %s", limit)
}

// IsKind reports whether err is an *InterpreterError of the given kind.
func IsKind(err error, kind Kind) bool {
	ie, ok := err.(*InterpreterError)
	return ok && ie.Kind == kind
}

// Catchable reports whether sandbox try/catch may handle an error of this
// kind. Boundary failures (validation, cancellation, resource limits,
// async misuse) always propagate to the host.
func Catchable(kind Kind) bool {
	switch kind {
	case KindReference, KindType, KindSyntax, KindSecurity, KindHostCall:
		return true
	}
	return false
}
