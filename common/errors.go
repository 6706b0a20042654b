// Package common holds the error taxonomy shared by the clients and sessions.
package common

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrConnectivity = errors.New("backend unreachable")
	ErrValidation   = errors.New("validation failed")
	ErrBackend      = errors.New("backend error")
	ErrEngine       = errors.New("speech engine error")
	ErrUnsupported  = errors.New("capability unsupported")
)

// Error carries a kind, a human readable message and an optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Connectivity wraps a transport failure behind a generic message.
func Connectivity(err error) error {
	return &Error{Kind: ErrConnectivity, Msg: "cannot reach the analysis backend, check that it is running", Err: err}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// Backend keeps the backend-supplied message verbatim. An empty message
// falls back to the HTTP status.
func Backend(status int, msg string) error {
	if msg == "" {
		msg = fmt.Sprintf("backend returned status %d", status)
	}
	return &Error{Kind: ErrBackend, Msg: msg}
}

func Engine(err error) error {
	return &Error{Kind: ErrEngine, Err: err}
}

func Unsupported(msg string) error {
	return &Error{Kind: ErrUnsupported, Msg: msg}
}

// Message returns the user facing text of err, or "" for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
