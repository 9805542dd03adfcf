// internal/app/system/apierr/apierr.go

// Package apierr defines the error taxonomy for the JSON API.
//
// Handlers return *Error values for expected failures (missing fields,
// permission denials, absent documents, idempotency guards) and the route
// boundary maps them onto HTTP statuses and the JSON error envelope.
// Anything else is treated as an unhandled server error.
package apierr

import (
	"errors"
	"net/http"
)

// Error codes carried in the JSON envelope so clients can branch on the
// failure kind without parsing messages.
const (
	CodeValidation     = "validation_error"
	CodeNotFound       = "not_found"
	CodeForbidden      = "forbidden"
	CodeAlreadyExists  = "already_exists"
	CodeAlreadyCreator = "already_creator"
	CodeAlreadyAdmin   = "already_admin"
	CodeNotAdmin       = "not_admin"
	CodeLimitExceeded  = "limit_exceeded"
	CodeUnhandled      = "unhandled"
)

// Error is an expected API failure with an HTTP status mapping.
type Error struct {
	Status  int    // HTTP status code
	Code    string // machine-readable code (see Code* constants)
	Message string // user-facing message
}

func (e *Error) Error() string { return e.Message }

// Validation reports a missing or malformed request field (400).
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

// NotFound reports an absent group, member, or pending entry (404).
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

// Forbidden reports a caller without the required role (403).
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: msg}
}

// AlreadyCreator reports a join request from the group's own creator (400).
func AlreadyCreator(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeAlreadyCreator, Message: msg}
}

// AlreadyAdmin reports a promote of an existing admin (409).
func AlreadyAdmin(msg string) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeAlreadyAdmin, Message: msg}
}

// NotAdmin reports a demote of a user who is not an admin (400).
func NotAdmin(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeNotAdmin, Message: msg}
}

// LimitExceeded reports the admin cap being hit (400).
func LimitExceeded(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeLimitExceeded, Message: msg}
}

// From extracts an *Error from err, if it carries one.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
