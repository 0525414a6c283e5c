package apperr

import "errors"

// NotFoundError marks a required lookup that resolved to nothing. The Resource
// string is part of the contract: callers distinguish "client not found" from
// "one or more items not found" by message.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NotFound builds a NotFoundError for the given resource ("client", "invoice",
// "one or more items", ...).
func NotFound(resource string) error { return &NotFoundError{Resource: resource} }

// ConflictError marks an operation blocked by existing state: a duplicate user
// email, or a deletion guarded by live references.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(message string) error { return &ConflictError{Message: message} }

// ValidationError carries per-field violation codes for malformed input.
type ValidationError struct {
	Violations map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func Validation(violations map[string]string) error {
	return &ValidationError{Violations: violations}
}

// ErrInvalidCredentials deliberately does not say whether the email or the
// password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
