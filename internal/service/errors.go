package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors the handlers map to flash messages or error pages.
var (
	ErrDuplicateAccount      = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNotFound              = errors.New("not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
)

// ValidationError carries the field-level messages shown back on the form.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// PersistenceError wraps a failed store operation. Handlers render a
// generic error page for these; the wrapped cause goes to the log.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
