package service

import "errors"

// Error kinds surfaced to the transport layer. Handlers translate
// these to HTTP statuses; any error not matching one of them is
// treated as internal and its detail stays out of the response.
var (
	// ErrValidation marks missing or malformed input fields
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a duplicate username or email
	ErrConflict = errors.New("username or email already in use")

	// ErrNotFound marks a lookup that resolved no user
	ErrNotFound = errors.New("user not found")

	// ErrUnauthorized marks a bad credential or a missing, invalid,
	// expired or already-rotated token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredential marks a change-password attempt with a
	// wrong current password
	ErrInvalidCredential = errors.New("invalid password")

	// ErrInternal marks unexpected storage or token failures
	ErrInternal = errors.New("internal error")
)
