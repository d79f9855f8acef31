// Package errors provides the ledger's error taxonomy.
//
// Every error that crosses the ledger boundary is an *Error carrying a Code.
// Callers compare with errors.Is against a sentinel of the same code, or use
// CodeOf to read the code from anywhere in a wrapped chain.
package errors

import (
	stderrors "errors"
	"fmt"

	"connectrpc.com/connect"
)

// Code is a machine-readable error category.
type Code string

const (
	CodeValidation       Code = "VALIDATION"
	CodeNotFound         Code = "NOT_FOUND"
	CodeConflict         Code = "CONFLICT"
	CodeInternal         Code = "INTERNAL"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodeAlreadyExists    Code = "ALREADY_EXISTS"
)

// ConnectCode maps a ledger code to the connect status code sent to clients.
func (c Code) ConnectCode() connect.Code {
	switch c {
	case CodeValidation:
		return connect.CodeInvalidArgument
	case CodeNotFound:
		return connect.CodeNotFound
	case CodeConflict:
		// Aborted tells clients the operation may be retried.
		return connect.CodeAborted
	case CodePermissionDenied:
		return connect.CodePermissionDenied
	case CodeUnauthenticated:
		return connect.CodeUnauthenticated
	case CodeAlreadyExists:
		return connect.CodeAlreadyExists
	default:
		return connect.CodeInternal
	}
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation       = &Error{Code: CodeValidation}
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrConflict         = &Error{Code: CodeConflict}
	ErrInternal         = &Error{Code: CodeInternal}
	ErrPermissionDenied = &Error{Code: CodePermissionDenied}
	ErrUnauthenticated  = &Error{Code: CodeUnauthenticated}
	ErrAlreadyExists    = &Error{Code: CodeAlreadyExists}
)

// Error is the ledger error type.
type Error struct {
	Code    Code   // Machine-readable category
	Message string // Human-readable description
	Field   string // Offending input field, if any
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Validation reports malformed input on the named field.
func Validation(field, format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing referenced entity.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a concurrent mutation detected by the store.
func Conflict(message string, cause error) *Error {
	return &Error{Code: CodeConflict, Message: message, Cause: cause}
}

// Internal wraps an unexpected failure.
func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, Cause: cause}
}

// PermissionDenied reports an authenticated caller acting outside its rights.
func PermissionDenied(format string, args ...any) *Error {
	return &Error{Code: CodePermissionDenied, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated reports a missing or invalid identity.
func Unauthenticated(message string, cause error) *Error {
	return &Error{Code: CodeUnauthenticated, Message: message, Cause: cause}
}

// AlreadyExists reports a uniqueness violation.
func AlreadyExists(format string, args ...any) *Error {
	return &Error{Code: CodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ToConnect converts err into a *connect.Error with the mapped code.
func ToConnect(err error) *connect.Error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if stderrors.As(err, &ce) {
		return ce
	}
	return connect.NewError(CodeOf(err).ConnectCode(), err)
}
