// Package common defines shared sentinel errors used across ECOmmute
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorStorage          = errors.New("storage error")
	ErrorRevisionConflict = errors.New("revision conflict")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
