package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a group, join request, comment or member
// does not exist. Handlers map it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input is missing or malformed.
// The caller may fix the input and re-submit. Handlers map it to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrCapacityExceeded is returned when a member would push currentMembers
// past maxMembers.
var ErrCapacityExceeded = errors.New("group capacity exceeded")

// ErrInvalidTransition is returned when a join request is moved out of a
// terminal state, or towards a state the machine does not define.
var ErrInvalidTransition = errors.New("invalid join request transition")

// ErrDuplicatePending is returned when a user already has a pending request
// for the same group.
var ErrDuplicatePending = errors.New("join request already pending")

// ErrUnauthorized is returned when a requester tries to act on a resource
// they do not own, such as deleting another author's comment.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when the caller lacks the group role (host,
// co-host) or platform role (admin) an operation requires.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyMember is returned when a user asks to join a group they are
// already part of.
var ErrAlreadyMember = errors.New("already a member")

// ErrConflict is returned by repositories when an insert collides with an
// existing id.
var ErrConflict = errors.New("conflict")

// ValidationError lists the fields that failed validation.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := ErrValidation.Error() + ": " + e.Reason
	if len(e.Fields) > 0 {
		msg += ": " + strings.Join(e.Fields, ", ")
	}
	return msg
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Category splits errors into the two outcomes a client must tell apart:
// CategoryRetry means the caller can fix the input and try again,
// CategoryFinal means the decision stands.
type Category string

const (
	CategoryRetry Category = "retry"
	CategoryFinal Category = "final"
)

// CategoryOf classifies err. Unknown errors are treated as retryable since
// they are usually transient infrastructure failures.
func CategoryOf(err error) Category {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicatePending):
		return CategoryRetry
	case errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrNotFound):
		return CategoryFinal
	default:
		return CategoryRetry
	}
}
