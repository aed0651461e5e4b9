// Package common defines shared constants and sentinel errors used across
// the service and transport layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrorRetrieval    = errors.New("retrieval error")
	ErrorWrite        = errors.New("write error")
	ErrorInternal     = errors.New("internal error")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// IsExpected reports whether err is an outcome returned to callers as-is
// (not found, conflict, unauthorized, validation) rather than a failure
// that should be logged.
func IsExpected(err error) bool {
	return errors.Is(err, ErrorNotFound) ||
		errors.Is(err, ErrorConflict) ||
		errors.Is(err, ErrorUnauthorized) ||
		errors.Is(err, ErrorValidation)
}
