package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks submissions rejected before any I/O because a
	// required field is missing or malformed.
	ErrValidation = errors.New("invalid submission")

	// ErrInvalidTransition marks an owner status change the lifecycle
	// does not allow (for example anything out of deleted).
	ErrInvalidTransition = errors.New("invalid status transition")
)

// PolicyRejectionError carries the user-facing reason a submission was
// turned down by the profanity filter or the remote classifier. It is an
// expected outcome, not an infrastructure failure.
type PolicyRejectionError struct {
	Reason string
}

func (e *PolicyRejectionError) Error() string {
	return fmt.Sprintf("submission rejected: %s", e.Reason)
}
