package service

import "errors"

// Sentinel errors classify operation failures; the HTTP layer maps them to
// status codes. Anything not wrapping one of these is an internal failure.
var (
	// ErrInvalidInput indicates a missing or out-of-range request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict is returned when registering with an existing email or username.
	ErrConflict = errors.New("already exists")
	// ErrForbidden indicates the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
)
