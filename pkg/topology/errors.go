package topology

import "errors"

var (
	// ErrUnknownRole is returned when a role tag is outside the fixed vocabulary.
	ErrUnknownRole = errors.New("unknown node role")

	// ErrMissingField is returned when a roster entry lacks name, roles or ip.
	ErrMissingField = errors.New("roster entry is missing a required field")

	// ErrInvalidField is returned when a roster entry field has the wrong type.
	ErrInvalidField = errors.New("roster entry field has an invalid type")
)
