package projects

import "errors"

var (
	// ErrProjectNotFound is returned when the referenced project id does
	// not exist. Non-retryable.
	ErrProjectNotFound = errors.New("project not found")

	// ErrPermissionDenied is the sentinel all guard failures unwrap to.
	// Non-retryable without a role or state change.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConcurrentModification is returned when a conditional write lost
	// the race against another writer. Retryable: re-fetch and re-evaluate
	// the guard.
	ErrConcurrentModification = errors.New("project was modified concurrently")
)

// PermissionError carries the rule-specific message of a failed guard.
type PermissionError struct {
	Action  string
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}

func permissionDenied(action, message string) error {
	return &PermissionError{Action: action, Message: message}
}
