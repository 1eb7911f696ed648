package action

import "errors"

var (
	// ErrRollbackNotSupported is returned by actions that cannot be undone.
	ErrRollbackNotSupported = errors.New("rollback not supported for this action")

	// ErrActionNotFound is returned when a trigger names an unknown action.
	ErrActionNotFound = errors.New("action not found in registry")

	// ErrInvalidConfig is returned by factories for unusable parameters.
	ErrInvalidConfig = errors.New("invalid action configuration")
)
