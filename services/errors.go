package services

import "errors"

// ErrorKind is the closed set of failure categories the services report.
// The HTTP boundary maps kinds to status codes; nothing else inspects
// error strings.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindUnauthorized
	KindStorageFault
)

// Error carries a kind plus a caller-safe message. The wrapped cause, if
// any, is for logs only and never reaches a response body.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error with no underlying cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an Error around an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or 0 when err is not a service
// error.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}

// MessageOf extracts the caller-safe message from err, or empty when err
// is not a service error.
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return ""
}
