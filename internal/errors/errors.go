package errors

import "fmt"

// NotFoundErr is raised when an operation references a missing record
type NotFoundErr struct {
	message string
}

func (e *NotFoundErr) Error() string {
	return e.message
}

// NewNotFoundErr builds NotFoundErr
func NewNotFoundErr(msg string) *NotFoundErr {
	return &NotFoundErr{message: msg}
}

// ValidationErr is raised when an operation payload violates a business rule
type ValidationErr struct {
	target  string
	message string
}

func (e *ValidationErr) Error() string {
	return fmt.Sprintf("%s: %s", e.target, e.message)
}

// Target names the offending field or entity
func (e *ValidationErr) Target() string {
	return e.target
}

// NewValidationErr builds ValidationErr
func NewValidationErr(target string, msg string) *ValidationErr {
	return &ValidationErr{target: target, message: msg}
}

// UnauthorizedErr is raised on any credential or code failure. The message
// is safe to surface to the caller.
type UnauthorizedErr struct {
	message string
}

func (e *UnauthorizedErr) Error() string {
	return e.message
}

// NewUnauthorizedErr builds UnauthorizedErr
func NewUnauthorizedErr(msg string) *UnauthorizedErr {
	return &UnauthorizedErr{message: msg}
}

// ForbiddenErr is raised when an authenticated caller lacks the role
// required by the operation
type ForbiddenErr struct {
	message string
}

func (e *ForbiddenErr) Error() string {
	return e.message
}

// NewForbiddenErr builds ForbiddenErr
func NewForbiddenErr(msg string) *ForbiddenErr {
	return &ForbiddenErr{message: msg}
}
