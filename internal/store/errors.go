package store

import (
	"errors"
	"fmt"
)

// Code is the closed set of results a Connection reports.
type Code string

const (
	// CodeOK is reported for a nil error.
	CodeOK Code = "OK"

	// CodeAlreadyConnected indicates Connect on a connected Connection.
	CodeAlreadyConnected Code = "ALREADY_CONNECTED"

	// CodeNotConnected indicates an operation that needs an open handle.
	CodeNotConnected Code = "NOT_CONNECTED"

	// CodeQueryFail indicates a build, substitution, engine, or decode failure.
	CodeQueryFail Code = "QUERY_FAIL"
)

// Sentinels for errors.Is. They match any *Error with the same code.
var (
	ErrAlreadyConnected = &Error{Code: CodeAlreadyConnected}
	ErrNotConnected     = &Error{Code: CodeNotConnected}
	ErrQueryFail        = &Error{Code: CodeQueryFail}
)

// Error is returned by every failing Connection operation.
type Error struct {
	// Code identifies the failure category.
	Code Code

	// Op is the Connection method that failed (e.g. "query", "scalar_int").
	Op string

	// Query is the SQL text or template involved, if any.
	Query string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Query != "" {
		msg = fmt.Sprintf("%s (query=%q)", msg, e.Query)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Err* sentinels by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Query == "" && t.Err == nil && t.Code == e.Code
}

// CodeOf returns the code carried by err. A nil error is CodeOK and an
// error that is not a *Error is reported as CodeQueryFail.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeQueryFail
}

// IsNotConnected reports whether err carries CodeNotConnected.
func IsNotConnected(err error) bool {
	return err != nil && CodeOf(err) == CodeNotConnected
}

// IsAlreadyConnected reports whether err carries CodeAlreadyConnected.
func IsAlreadyConnected(err error) bool {
	return err != nil && CodeOf(err) == CodeAlreadyConnected
}

// IsQueryFail reports whether err carries CodeQueryFail.
func IsQueryFail(err error) bool {
	return err != nil && CodeOf(err) == CodeQueryFail
}

func queryFail(op, query string, err error) *Error {
	return &Error{Code: CodeQueryFail, Op: op, Query: query, Err: err}
}
