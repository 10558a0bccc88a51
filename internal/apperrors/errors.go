// Package apperrors defines the error taxonomy shared by services and handlers
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure
type Kind int

const (
	// KindInternal is any unexpected failure
	KindInternal Kind = iota
	// KindValidation is missing or malformed input
	KindValidation
	// KindNotFound is a missing or inactive entity
	KindNotFound
	// KindInvalidCredentials is a password mismatch on sign-in
	KindInvalidCredentials
	// KindConflict is a duplicate email on sign-up
	KindConflict
)

// Error is a domain failure whose message is returned to the caller verbatim
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation builds a KindValidation error
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidCredentials builds a KindInvalidCredentials error
func InvalidCredentials(message string) error {
	return &Error{Kind: KindInvalidCredentials, Message: message}
}

// Conflict builds a KindConflict error
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf reports the kind of err, KindInternal when it carries none
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a KindNotFound error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// Status maps err to its HTTP status.
// Credentials failures and internal errors answer 400, a conflict answers 404.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound, KindConflict:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
