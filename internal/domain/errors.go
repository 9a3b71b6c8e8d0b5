package domain

import "errors"

// Sentinel errors shared across the domain. Services return these unchanged
// so the HTTP layer can map them to status codes with errors.Is.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a request fails business validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned on login with a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned when the users.email unique index is violated.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrDuplicateCategory is returned when the category name unique index is violated.
	ErrDuplicateCategory = errors.New("category name already in use")

	// ErrCategoryInUse is returned when deleting a category that events still reference.
	ErrCategoryInUse = errors.New("category is referenced by events")

	// ErrEventPassed is returned when registering for or cancelling an event whose date is in the past.
	ErrEventPassed = errors.New("event already passed")

	// ErrEventFull is returned when an event has no remaining capacity.
	ErrEventFull = errors.New("event is full")

	// ErrAlreadyRegistered is returned when the (user, event) registration pair already exists.
	ErrAlreadyRegistered = errors.New("already registered for event")
)
