package scheduling

import (
	"errors"
	"fmt"

	"schedly/models"
)

// ValidationError reports malformed or missing input; it is raised before any
// conflict detection runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError means the requested slot is not bookable. The orchestrator
// treats any non-empty conflict list as a hard rejection.
type ConflictError struct {
	Conflicts []models.Conflict
}

func (e ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "slot not bookable"
	}
	return fmt.Sprintf("slot not bookable: %s", e.Conflicts[0].Message)
}

// NotFoundError reports a missing staff member, branch, resource, or
// appointment.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConcurrencyError means the storage layer rejected a write because another
// request claimed an overlapping interval first. The orchestrator retries
// once before surfacing the loss as a ConflictError.
type ConcurrencyError struct {
	Key string
}

func (e ConcurrencyError) Error() string {
	return fmt.Sprintf("lost booking race for %s", e.Key)
}

func AsValidationError(err error) (ValidationError, bool) {
	var ve ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func AsConflictError(err error) (ConflictError, bool) {
	var ce ConflictError
	ok := errors.As(err, &ce)
	return ce, ok
}

func AsNotFoundError(err error) (NotFoundError, bool) {
	var ne NotFoundError
	ok := errors.As(err, &ne)
	return ne, ok
}
