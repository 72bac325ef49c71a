package storage

import "errors"

var (
	// ErrNotFound is returned when a user does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a username or email is already registered
	ErrDuplicate = errors.New("user already exists")
	// ErrConflict is returned when a progress record changed since it was read
	ErrConflict = errors.New("version conflict")
	// ErrUnavailable wraps failures of the underlying store
	ErrUnavailable = errors.New("store unavailable")
)
