package entity

import "errors"

var (
	// ErrNotFound is returned when an entity id cannot be resolved
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor lacks the role or eligibility
	// required for an operation. Distinct from ErrNotFound so callers can branch.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned when a required field is missing or malformed
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a uniqueness constraint would be violated
	ErrConflict = errors.New("conflict")
)
